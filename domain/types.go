package domain

import internaldomain "github.com/goliatone/go-workflowui/internal/domain"

// UIStyle selects how workflow state choices are presented on forms.
type UIStyle = internaldomain.UIStyle

const (
	// UIStyleRadios keeps the host's radio control (default).
	UIStyleRadios = internaldomain.UIStyleRadios
	// UIStyleButtons renders one submit button per legal transition.
	UIStyleButtons = internaldomain.UIStyleButtons
	// UIStyleDropdown renders a single-select widget.
	UIStyleDropdown = internaldomain.UIStyleDropdown
)

// ParseUIStyle maps a persisted code to a style, falling back to radios.
func ParseUIStyle(code int) UIStyle {
	return internaldomain.ParseUIStyle(code)
}

package transform

import "github.com/goliatone/go-workflowui/internal/domain"

// Strategy is the rendering plan for a UI style.
type Strategy struct {
	Style domain.UIStyle
	// Buttons replaces the control with one submit button per transition.
	Buttons bool
	// ConvertToSelect turns the control into a single-select widget.
	ConvertToSelect bool
	// LabelSubmit relabels the generic save control with the label pattern.
	LabelSubmit bool
}

// SelectStrategy maps a UI style to its strategy. Dropdown converts the
// widget and then labels the save control like radios; unknown styles behave
// as radios.
func SelectStrategy(style domain.UIStyle) Strategy {
	switch domain.ParseUIStyle(int(style)) {
	case domain.UIStyleButtons:
		return Strategy{Style: domain.UIStyleButtons, Buttons: true}
	case domain.UIStyleDropdown:
		return Strategy{Style: domain.UIStyleDropdown, ConvertToSelect: true, LabelSubmit: true}
	default:
		return Strategy{Style: domain.UIStyleRadios, LabelSubmit: true}
	}
}

package domain

import (
	"strconv"
	"strings"
)

// UIStyle selects how workflow state choices are presented on forms.
type UIStyle int

const (
	// UIStyleRadios keeps the host's radio control. It is the default and the fallback.
	UIStyleRadios UIStyle = 0
	// UIStyleButtons replaces the control with one submit button per transition.
	UIStyleButtons UIStyle = 1
	// UIStyleDropdown renders the control as a single-select widget.
	UIStyleDropdown UIStyle = 2
)

// String renders the style name used in logs and admin payloads.
func (s UIStyle) String() string {
	switch s {
	case UIStyleButtons:
		return "buttons"
	case UIStyleDropdown:
		return "dropdown"
	default:
		return "radios"
	}
}

// Code returns the persisted numeric code.
func (s UIStyle) Code() int {
	return int(ParseUIStyle(int(s)))
}

// ParseUIStyle maps a persisted code to a style. Anything other than the two
// non-default codes is treated as radios.
func ParseUIStyle(code int) UIStyle {
	switch UIStyle(code) {
	case UIStyleButtons:
		return UIStyleButtons
	case UIStyleDropdown:
		return UIStyleDropdown
	default:
		return UIStyleRadios
	}
}

// ParseUIStyleName accepts either a style name or its numeric code.
func ParseUIStyleName(value string) UIStyle {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch trimmed {
	case "buttons":
		return UIStyleButtons
	case "dropdown", "select":
		return UIStyleDropdown
	}
	if code, err := strconv.Atoi(trimmed); err == nil {
		return ParseUIStyle(code)
	}
	return UIStyleRadios
}

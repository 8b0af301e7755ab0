package form

import "strings"

// Kind groups forms by how the transform treats them.
type Kind string

const (
	// KindWorkflowTab is the dedicated workflow management form.
	KindWorkflowTab Kind = "workflow_tab"
	// KindContentEdit is the canonical content edit form.
	KindContentEdit Kind = "content_edit"
	// KindComment is a secondary content type form.
	KindComment Kind = "comment"
	KindOther   Kind = "other"
)

// WorkflowTabFormID is the id of the dedicated workflow management form.
const WorkflowTabFormID = "workflow_tab_form"

// Classify maps a form id to its kind.
func Classify(formID string) Kind {
	id := strings.ToLower(strings.TrimSpace(formID))
	switch {
	case id == WorkflowTabFormID:
		return KindWorkflowTab
	case id == "comment_form" || strings.HasPrefix(id, "comment_"):
		return KindComment
	case strings.HasSuffix(id, "_content_form"):
		return KindContentEdit
	default:
		return KindOther
	}
}

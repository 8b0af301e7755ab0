package form

import (
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
	"github.com/google/uuid"
)

// Control types the transform reads or produces.
const (
	TypeRadios   = "radios"
	TypeSelect   = "select"
	TypeSubmit   = "submit"
	TypeItem     = "item"
	TypeFieldset = "fieldset"
	TypeActions  = "actions"
	TypeValue    = "value"
	TypeTextarea = "textarea"
)

// Well-known control keys.
const (
	ActionsKey   = "actions"
	SubmitKey    = "submit"
	SaveKey      = "save"
	ContentIDKey = "content_id"
	ScheduledKey = "workflow_scheduled"
	CommentKey   = "workflow_comment"
)

// Option is one choice of a radios or select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Route is the routing metadata carried by a transition button.
type Route struct {
	StateID interfaces.StateID `json:"state_id"`
	Field   string             `json:"field"`
}

// Control is one node of the form tree. Nil pointers mean the property is
// omitted, which differs from an empty value.
type Control struct {
	Key          string            `json:"key"`
	Type         string            `json:"type"`
	Title        *string           `json:"title,omitempty"`
	Value        string            `json:"value,omitempty"`
	DefaultValue string            `json:"default_value,omitempty"`
	Options      []Option          `json:"options,omitempty"`
	Weight       int               `json:"weight"`
	Access       *bool             `json:"access,omitempty"`
	Submit       []string          `json:"submit,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Route        *Route            `json:"route,omitempty"`
	Children     []*Control        `json:"children,omitempty"`
}

// Visible reports whether the control is rendered.
func (c *Control) Visible() bool {
	return c != nil && (c.Access == nil || *c.Access)
}

// Child returns the direct child with key.
func (c *Control) Child(key string) *Control {
	if c == nil {
		return nil
	}
	return find(c.Children, key)
}

// AddChild appends a control, replacing any child with the same key.
func (c *Control) AddChild(child *Control) {
	if c == nil || child == nil {
		return
	}
	c.Children = upsert(c.Children, child)
}

// RemoveChild deletes the direct child with key.
func (c *Control) RemoveChild(key string) bool {
	if c == nil {
		return false
	}
	var removed bool
	c.Children, removed = remove(c.Children, key)
	return removed
}

// Clone deep copies the control.
func (c *Control) Clone() *Control {
	if c == nil {
		return nil
	}
	out := *c
	if c.Title != nil {
		title := *c.Title
		out.Title = &title
	}
	if c.Access != nil {
		access := *c.Access
		out.Access = &access
	}
	if c.Route != nil {
		route := *c.Route
		out.Route = &route
	}
	out.Options = slices.Clone(c.Options)
	out.Submit = slices.Clone(c.Submit)
	out.Attributes = maps.Clone(c.Attributes)
	if c.Children != nil {
		out.Children = make([]*Control, len(c.Children))
		for i, child := range c.Children {
			out.Children[i] = child.Clone()
		}
	}
	return &out
}

// WorkflowBinding locates the workflow control the host rendered.
type WorkflowBinding struct {
	WorkflowID uuid.UUID `json:"workflow_id"`
	// Group is the key of the container holding the control.
	Group string `json:"group"`
	// Field is the key of the state control inside Group, also the value key
	// the save logic reads the requested state from.
	Field string `json:"field"`
}

// Path returns the slash separated path of the state control.
func (b *WorkflowBinding) Path() string {
	if b == nil {
		return ""
	}
	if b.Group == "" {
		return b.Field
	}
	return b.Group + "/" + b.Field
}

// Tree is the form handed over by the host.
type Tree struct {
	ID       string     `json:"id"`
	Controls []*Control `json:"controls"`
	// Submit is the top-level handler chain.
	Submit   []string         `json:"submit,omitempty"`
	Workflow *WorkflowBinding `json:"workflow,omitempty"`
	// Content is the item attached by the host, possibly partial for unsaved content.
	Content *interfaces.ContentItem `json:"-"`
}

// Kind classifies the tree by its id.
func (t *Tree) Kind() Kind {
	if t == nil {
		return KindOther
	}
	return Classify(t.ID)
}

// Find returns the control at a slash separated path.
func (t *Tree) Find(path string) *Control {
	if t == nil {
		return nil
	}
	keys := splitPath(path)
	if len(keys) == 0 {
		return nil
	}
	current := find(t.Controls, keys[0])
	for _, key := range keys[1:] {
		current = current.Child(key)
	}
	return current
}

// Add places a control under parent, or at the top level when parent is
// empty. It returns false when parent does not exist.
func (t *Tree) Add(parent string, control *Control) bool {
	if t == nil || control == nil {
		return false
	}
	if strings.TrimSpace(parent) == "" {
		t.Controls = upsert(t.Controls, control)
		return true
	}
	container := t.Find(parent)
	if container == nil {
		return false
	}
	container.AddChild(control)
	return true
}

// Remove deletes the control at path.
func (t *Tree) Remove(path string) bool {
	if t == nil {
		return false
	}
	keys := splitPath(path)
	switch len(keys) {
	case 0:
		return false
	case 1:
		var removed bool
		t.Controls, removed = remove(t.Controls, keys[0])
		return removed
	default:
		parent := t.Find(strings.Join(keys[:len(keys)-1], "/"))
		return parent.RemoveChild(keys[len(keys)-1])
	}
}

// Clone deep copies the tree. The attached content item is shared.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := *t
	out.Submit = slices.Clone(t.Submit)
	if t.Workflow != nil {
		binding := *t.Workflow
		out.Workflow = &binding
	}
	if t.Controls != nil {
		out.Controls = make([]*Control, len(t.Controls))
		for i, control := range t.Controls {
			out.Controls[i] = control.Clone()
		}
	}
	return &out
}

// String returns a pointer to s, for optional control properties.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for optional control properties.
func Bool(b bool) *bool {
	return &b
}

func splitPath(path string) []string {
	var keys []string
	for _, key := range strings.Split(path, "/") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func find(controls []*Control, key string) *Control {
	for _, control := range controls {
		if control != nil && control.Key == key {
			return control
		}
	}
	return nil
}

func upsert(controls []*Control, control *Control) []*Control {
	for i, existing := range controls {
		if existing != nil && existing.Key == control.Key {
			controls[i] = control
			return controls
		}
	}
	return append(controls, control)
}

func remove(controls []*Control, key string) ([]*Control, bool) {
	for i, control := range controls {
		if control != nil && control.Key == key {
			return slices.Delete(controls, i, i+1), true
		}
	}
	return controls, false
}

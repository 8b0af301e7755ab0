// Package permissions gates the passive state display and the admin settings
// operations. Permissions are "resource:action" tokens compared case
// insensitively; a set may grant "resource:*" or "*".
package permissions

import (
	"context"
	"errors"
	"strings"
)

const (
	// WorkflowStateView allows the read-only "current state" line on forms
	// that offer no transition.
	WorkflowStateView = "workflow_state:view"

	SettingsRead   = "workflowui_settings:read"
	SettingsUpdate = "workflowui_settings:update"
	SettingsDelete = "workflowui_settings:delete"
)

var ErrPermissionDenied = errors.New("permissions: denied")

// Error names the permission a caller was missing.
type Error struct {
	Permission string
}

func (e Error) Error() string {
	if e.Permission == "" {
		return ErrPermissionDenied.Error()
	}
	return ErrPermissionDenied.Error() + ": " + e.Permission
}

func (e Error) Unwrap() error { return ErrPermissionDenied }

// Checker answers a single permission question.
type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool { return fn(permission) }

// Permissioner is implemented by user and session types of host
// applications.
type Permissioner interface {
	HasPermission(permission string) bool
}

// Set is a static grant list. The empty set denies everything.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := make(Set, len(perms))
	for _, perm := range perms {
		if p := canonical(perm); p != "" {
			set[p] = struct{}{}
		}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	p := canonical(permission)
	if p == "" {
		return false
	}
	for _, candidate := range []string{p, resourceWildcard(p), "*"} {
		if _, ok := s[candidate]; ok && candidate != "" {
			return true
		}
	}
	return false
}

func resourceWildcard(p string) string {
	resource, _, found := strings.Cut(p, ":")
	if !found || resource == "" {
		return ""
	}
	return resource + ":*"
}

func canonical(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}

type checkerKey struct{}

// WithChecker attaches checker to ctx. A nil checker leaves ctx unchanged.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey{}, checker)
}

// WithPermissions attaches a Set built from perms. Passing no permissions
// attaches an empty set, which denies everything.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	return WithChecker(ctx, NewSet(perms...))
}

func WithPermissioner(ctx context.Context, p Permissioner) context.Context {
	if p == nil {
		return ctx
	}
	return WithChecker(ctx, CheckerFunc(p.HasPermission))
}

// CheckerFromContext returns the attached checker or nil.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(checkerKey{}).(Checker)
	return checker
}

// Allowed reports whether ctx grants permission. Contexts without a checker
// and blank permissions are allowed.
func Allowed(ctx context.Context, permission string) bool {
	return Require(ctx, permission) == nil
}

// Require returns an Error when ctx carries a checker that refuses
// permission.
func Require(ctx context.Context, permission string) error {
	p := canonical(permission)
	checker := CheckerFromContext(ctx)
	if p == "" || checker == nil || checker.Allowed(p) {
		return nil
	}
	return Error{Permission: p}
}

package permissions

import (
	"context"
	"errors"
	"testing"
)

type recordingChecker struct {
	allowed map[string]bool
	calls   []string
}

func newRecordingChecker(allowed ...string) *recordingChecker {
	set := make(map[string]bool, len(allowed))
	for _, perm := range allowed {
		set[perm] = true
	}
	return &recordingChecker{allowed: set}
}

func (c *recordingChecker) Allowed(permission string) bool {
	c.calls = append(c.calls, permission)
	return c.allowed[permission]
}

type permissioner struct{ perms map[string]bool }

func (p permissioner) HasPermission(permission string) bool { return p.perms[permission] }

func TestAllowedWithoutCheckerPermitsEverything(t *testing.T) {
	if !Allowed(context.Background(), WorkflowStateView) {
		t.Fatal("expected contexts without checker to allow")
	}
	if err := Require(context.Background(), SettingsUpdate); err != nil {
		t.Fatalf("expected nil error without checker, got %v", err)
	}
}

func TestAllowedNormalisesPermission(t *testing.T) {
	checker := newRecordingChecker(WorkflowStateView)
	ctx := WithChecker(context.Background(), checker)

	if !Allowed(ctx, "  Workflow_State:VIEW ") {
		t.Fatal("expected normalised permission to be allowed")
	}
	if len(checker.calls) != 1 || checker.calls[0] != WorkflowStateView {
		t.Fatalf("unexpected checker calls %v", checker.calls)
	}
}

func TestRequireReturnsTypedError(t *testing.T) {
	ctx := WithPermissions(context.Background(), SettingsRead)

	err := Require(ctx, SettingsUpdate)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	var permErr Error
	if !errors.As(err, &permErr) || permErr.Permission != SettingsUpdate {
		t.Fatalf("expected permission error for %s, got %v", SettingsUpdate, err)
	}
	if err := Require(ctx, SettingsRead); err != nil {
		t.Fatalf("expected read to be allowed, got %v", err)
	}
}

func TestWithPermissionsEmptyDeniesEverything(t *testing.T) {
	ctx := WithPermissions(context.Background())
	if Allowed(ctx, WorkflowStateView) {
		t.Fatal("expected empty permission set to deny")
	}
}

func TestSetWildcards(t *testing.T) {
	set := NewSet("workflowui_settings:*")
	if !set.Allowed(SettingsDelete) {
		t.Fatal("expected resource wildcard to match")
	}
	if set.Allowed(WorkflowStateView) {
		t.Fatal("expected other resources to be denied")
	}
	if !NewSet("*").Allowed(WorkflowStateView) {
		t.Fatal("expected global wildcard to match")
	}
}

func TestPermissionerAdapter(t *testing.T) {
	ctx := WithPermissioner(context.Background(), permissioner{perms: map[string]bool{WorkflowStateView: true}})
	if !Allowed(ctx, WorkflowStateView) {
		t.Fatal("expected permissioner to allow view")
	}
	if Allowed(ctx, SettingsUpdate) {
		t.Fatal("expected permissioner to deny update")
	}
}

func TestBlankPermissionIsAllowed(t *testing.T) {
	ctx := WithPermissions(context.Background())
	if err := Require(ctx, "  "); err != nil {
		t.Fatalf("expected blank permission to pass, got %v", err)
	}
	if NewSet("").Allowed(WorkflowStateView) {
		t.Fatal("expected blank grants to be dropped")
	}
	if got := (Error{}).Error(); got != "permissions: denied" {
		t.Fatalf("unexpected message %q", got)
	}
}

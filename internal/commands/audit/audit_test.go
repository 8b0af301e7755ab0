package auditcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-workflowui/internal/audit"
	"github.com/goliatone/go-workflowui/internal/logging"
)

type stubAuditLog struct {
	events     []audit.Event
	listErr    error
	clearErr   error
	listCalls  int
	clearCalls int
}

func (s *stubAuditLog) List(context.Context) ([]audit.Event, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	copyEvents := make([]audit.Event, len(s.events))
	copy(copyEvents, s.events)
	return copyEvents, nil
}

func (s *stubAuditLog) Clear(context.Context) error {
	s.clearCalls++
	return s.clearErr
}

func TestExportAuditHandlerRespectsLimit(t *testing.T) {
	log := &stubAuditLog{
		events: []audit.Event{
			{EntityType: "workflowui_settings", EntityID: "global", Action: "workflowui_settings_created", OccurredAt: time.Now()},
			{EntityType: "workflowui_settings", EntityID: "global", Action: "workflowui_settings_updated", OccurredAt: time.Now()},
			{EntityType: "workflowui_settings", EntityID: "global", Action: "workflowui_settings_deleted", OccurredAt: time.Now()},
		},
	}
	handler := NewExportAuditHandler(log, logging.NoOp())
	limit := 2

	if err := handler.Execute(context.Background(), ExportAuditCommand{MaxRecords: &limit}); err != nil {
		t.Fatalf("export execute: %v", err)
	}
	if log.listCalls != 1 {
		t.Fatalf("expected list to be called once, got %d", log.listCalls)
	}
}

func TestExportAuditHandlerPropagatesError(t *testing.T) {
	log := &stubAuditLog{listErr: errors.New("list failed")}
	handler := NewExportAuditHandler(log, logging.NoOp())

	err := handler.Execute(context.Background(), ExportAuditCommand{})
	if err == nil {
		t.Fatal("expected list error")
	}
	if !errors.Is(err, log.listErr) {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestCleanupAuditHandlerDryRun(t *testing.T) {
	log := &stubAuditLog{
		events: []audit.Event{{EntityType: "workflowui_settings", EntityID: "global"}},
	}
	handler := NewCleanupAuditHandler(log, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupAuditCommand{DryRun: true}); err != nil {
		t.Fatalf("cleanup dry run: %v", err)
	}
	if log.clearCalls != 0 {
		t.Fatalf("expected clear not to be called, got %d", log.clearCalls)
	}
}

func TestCleanupAuditHandlerClearsEvents(t *testing.T) {
	log := &stubAuditLog{
		events: []audit.Event{{EntityType: "workflowui_settings", EntityID: "global"}},
	}
	handler := NewCleanupAuditHandler(log, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupAuditCommand{}); err != nil {
		t.Fatalf("cleanup execute: %v", err)
	}
	if log.listCalls != 1 {
		t.Fatalf("expected list to be called once, got %d", log.listCalls)
	}
	if log.clearCalls != 1 {
		t.Fatalf("expected clear calls 1, got %d", log.clearCalls)
	}
}

func TestCleanupAuditHandlerPropagatesErrors(t *testing.T) {
	listErr := errors.New("list boom")
	log := &stubAuditLog{listErr: listErr}
	handler := NewCleanupAuditHandler(log, logging.NoOp())

	err := handler.Execute(context.Background(), CleanupAuditCommand{})
	if err == nil {
		t.Fatal("expected list error")
	}
	if !errors.Is(err, listErr) {
		t.Fatalf("expected list error, got %v", err)
	}

	log.listErr = nil
	log.clearErr = errors.New("clear boom")

	err = handler.Execute(context.Background(), CleanupAuditCommand{})
	if err == nil {
		t.Fatal("expected clear error")
	}
	if !errors.Is(err, log.clearErr) {
		t.Fatalf("expected clear error, got %v", err)
	}
}

func TestExportAuditHandlerRejectsNegativeLimit(t *testing.T) {
	handler := NewExportAuditHandler(&stubAuditLog{}, logging.NoOp())
	limit := -1

	if err := handler.Execute(context.Background(), ExportAuditCommand{MaxRecords: &limit}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFilterByAction(t *testing.T) {
	events := []audit.Event{
		{Action: "workflowui_settings_created"},
		{Action: "workflowui_settings_updated"},
		{Action: "workflowui_settings_updated"},
	}
	if got := filterByAction(events, "workflowui_settings_updated"); len(got) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(got))
	}
	if got := filterByAction(events, " "); len(got) != 3 {
		t.Fatalf("expected unfiltered events, got %d", len(got))
	}
}

func TestCleanupAuditHandlerCronOptions(t *testing.T) {
	handler := NewCleanupAuditHandler(&stubAuditLog{}, nil, CleanupWithCronExpression("@daily"))
	if got := handler.CronOptions().Expression; got != "@daily" {
		t.Fatalf("expected @daily, got %q", got)
	}
	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron run: %v", err)
	}
}

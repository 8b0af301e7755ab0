package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.FormTransformed("buttons", "buttons")
	m.FormTransformed("buttons", "buttons")
	m.FormTransformed("dropdown", "passive")
	m.ButtonsRendered(2)
	m.TransitionCommitted("committed")

	if got := testutil.ToFloat64(m.transforms.WithLabelValues("buttons", "buttons")); got != 2 {
		t.Fatalf("expected 2 buttons transforms, got %f", got)
	}
	if got := testutil.ToFloat64(m.commits.WithLabelValues("committed")); got != 1 {
		t.Fatalf("expected 1 commit, got %f", got)
	}
	if count := testutil.CollectAndCount(m.buttons); count != 1 {
		t.Fatalf("expected histogram to be collected, got %d", count)
	}
	if count, err := testutil.GatherAndCount(reg); err != nil || count == 0 {
		t.Fatalf("expected registered metrics, got %d (%v)", count, err)
	}
}

func TestNewToleratesRepeatedRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatalf("first New: %v", err)
	}
	if _, err := New(reg); err != nil {
		t.Fatalf("second New: %v", err)
	}
}

func TestNoOpRecorder(t *testing.T) {
	rec := NoOp()
	rec.FormTransformed("radios", "radios")
	rec.ButtonsRendered(3)
	rec.TransitionCommitted("skipped")
	rec.CommandExecuted("workflowui.settings.reset", "ok", time.Millisecond)
}

func TestCommandDurationsByOutcome(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.CommandExecuted("workflowui.transition.assign", "ok", 3*time.Millisecond)
	m.CommandExecuted("workflowui.transition.assign", "failed", time.Millisecond)
	m.CommandExecuted("workflowui.settings.reload", "ok", time.Millisecond)

	if count := testutil.CollectAndCount(m.commands); count != 3 {
		t.Fatalf("expected 3 command series, got %d", count)
	}
}

func TestRepeatedRegistrationSharesSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, _ := New(reg)
	second, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first.TransitionCommitted("committed")
	second.TransitionCommitted("committed")

	if got := testutil.ToFloat64(first.commits.WithLabelValues("committed")); got != 2 {
		t.Fatalf("expected shared counter at 2, got %f", got)
	}
}

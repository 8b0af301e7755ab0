package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-workflowui/internal/logging"
	"github.com/goliatone/go-workflowui/internal/runtimeconfig"
)

func TestNewHonoursLoggingBlock(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig().Logging
	cfg.Level = "warning"
	cfg.Format = "pretty"
	cfg.Focus = []string{" workflowui.commit ", ""}

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logging.CommitLogger(p).Warn("workflowui.commit.skipped", "reason", "no_route")

	cfg.Format = "xml"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected xml format to be rejected")
	}
}

func TestOptionsMapLevels(t *testing.T) {
	for _, level := range []string{"", "TRACE", "bogus"} {
		opts, err := options(runtimeconfig.LoggingConfig{Level: level, AddSource: true})
		if err != nil {
			t.Fatalf("options(%q): %v", level, err)
		}
		want := 2
		if level == "TRACE" {
			want = 3
		}
		if len(opts) != want {
			t.Fatalf("level %q: expected %d options, got %d", level, want, len(opts))
		}
	}
}

func TestNilProviderHandsOutNoOp(t *testing.T) {
	var p *Provider
	if p.GetLogger("workflowui.form") == nil {
		t.Fatal("expected no-op logger")
	}
}

func TestModuleLoggerForwardsToGoLogger(t *testing.T) {
	inner := &captureLogger{}
	l := adapt(inner)

	l.Info("workflowui.form.altered", "form_id", "article_content_form")
	l.Error("workflowui.commit.failed")

	fields := map[string]any{"state_id": 2}
	child := logging.WithFields(l, fields)
	fields["state_id"] = 3
	child.Debug("workflowui.commit.assigned")

	if len(inner.fields) != 1 || inner.fields[0]["state_id"] != 2 {
		t.Fatalf("expected cloned fields, got %v", inner.fields)
	}

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "req-1")
	l.WithContext(ctx)
	if len(inner.contexts) != 1 || inner.contexts[0] != ctx {
		t.Fatalf("expected context forwarded, got %v", inner.contexts)
	}

	want := []string{"info:workflowui.form.altered", "error:workflowui.commit.failed", "debug:workflowui.commit.assigned"}
	if len(inner.lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, inner.lines)
	}
	for i := range want {
		if inner.lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], inner.lines[i])
		}
	}
}

type captureLogger struct {
	lines    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.FieldsLogger = (*captureLogger)(nil)

func (c *captureLogger) add(level, msg string) { c.lines = append(c.lines, level+":"+msg) }

func (c *captureLogger) Trace(msg string, _ ...any) { c.add("trace", msg) }
func (c *captureLogger) Debug(msg string, _ ...any) { c.add("debug", msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.add("info", msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.add("warn", msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.add("error", msg) }
func (c *captureLogger) Fatal(msg string, _ ...any) { c.add("fatal", msg) }

func (c *captureLogger) WithContext(ctx context.Context) glog.Logger {
	c.contexts = append(c.contexts, ctx)
	return c
}

func (c *captureLogger) WithFields(fields map[string]any) glog.Logger {
	c.fields = append(c.fields, fields)
	return c
}

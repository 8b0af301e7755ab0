package i18n

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticTranslatorFallbacks(t *testing.T) {
	fx, err := DefaultFixture()
	if err != nil {
		t.Fatalf("DefaultFixture: %v", err)
	}
	translator := NewStaticTranslator(fx)

	t.Run("falls back to regional parent", func(t *testing.T) {
		got, err := translator.Translate("es_MX", "workflowui.move_to", "Revisión")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != `Mover a "Revisión"` {
			t.Fatalf("expected Spanish translation, got %q", got)
		}
	})

	t.Run("defaults locale when empty", func(t *testing.T) {
		got, err := translator.Translate("", "workflowui.move_to", "Review")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != `Move to "Review"` {
			t.Fatalf("expected default locale fallback, got %q", got)
		}
	})

	t.Run("falls back to default locale for unknown locale", func(t *testing.T) {
		got, err := translator.Translate("de", "workflowui.current_state", "Live")
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		if got != "Current state: Live" {
			t.Fatalf("expected English fallback, got %q", got)
		}
	})

	t.Run("reports missing keys", func(t *testing.T) {
		got, err := translator.Translate("en", "workflowui.unknown")
		if !errors.Is(err, ErrMissingTranslation) {
			t.Fatalf("expected ErrMissingTranslation, got %v", err)
		}
		if got != "workflowui.unknown" {
			t.Fatalf("expected key echo, got %q", got)
		}
	})
}

func TestLoaderReadsJSONBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	doc := `{"config":{"DefaultLocale":"fr"},"translations":{"fr":{"workflowui.actions":"Actions"}}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write bundle: %v", err)
	}

	fx, err := NewLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fx.Config.DefaultLocale != "fr" {
		t.Fatalf("expected fr default locale, got %q", fx.Config.DefaultLocale)
	}

	got, err := NewStaticTranslator(fx).Translate("en", "workflowui.actions")
	if err != nil || got != "Actions" {
		t.Fatalf("expected default locale lookup, got %q (%v)", got, err)
	}
}

func TestLoaderRejectsUnknownJSONFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	if err := os.WriteFile(path, []byte(`{"labels":{}}`), 0o600); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	if _, err := NewLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoadWithDefaultsOverlaysYAMLBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	doc := "translations:\n  de:\n    workflowui.move_to: 'Wechseln zu \"%s\"'\n  en:\n    workflowui.actions: Workflow\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write bundle: %v", err)
	}

	fx, err := LoadWithDefaults(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	translator := NewStaticTranslator(fx)

	if got, _ := translator.Translate("de", "workflowui.move_to", "Live"); got != `Wechseln zu "Live"` {
		t.Fatalf("expected German label from overlay, got %q", got)
	}
	if got, _ := translator.Translate("en", "workflowui.actions"); got != "Workflow" {
		t.Fatalf("expected overlay to replace English label, got %q", got)
	}
	if got, _ := translator.Translate("es", "workflowui.actions"); got != "Acciones" {
		t.Fatalf("expected embedded Spanish label kept, got %q", got)
	}
	if fx.Config.DefaultLocale != "en" {
		t.Fatalf("expected embedded default locale, got %q", fx.Config.DefaultLocale)
	}
}

func TestLoaderRequiresPath(t *testing.T) {
	if _, err := NewLoader(" ").Load(context.Background()); !errors.Is(err, ErrBundlePathRequired) {
		t.Fatalf("expected ErrBundlePathRequired, got %v", err)
	}
	fx, err := LoadWithDefaults(context.Background(), "")
	if err != nil || len(fx.Translations) == 0 {
		t.Fatalf("expected embedded bundle, got %v (%v)", fx, err)
	}
}

func TestNoOpEchoesKey(t *testing.T) {
	got, err := NoOp().Translate("en", "workflowui.move_to", "Live")
	if err != nil || got != "workflowui.move_to" {
		t.Fatalf("expected key echo, got %q (%v)", got, err)
	}
}

package i18n

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture is a message bundle: the locale the translator defaults to plus
// one message table per locale.
type Fixture struct {
	Config       Config                       `json:"config" yaml:"config"`
	Translations map[string]map[string]string `json:"translations" yaml:"translations"`
}

// Config names the default locale of a bundle.
type Config struct {
	DefaultLocale string   `json:"DefaultLocale" yaml:"default_locale"`
	Locales       []string `json:"Locales,omitempty" yaml:"locales,omitempty"`
}

// ErrBundlePathRequired is returned by Loader.Load without a path.
var ErrBundlePathRequired = errors.New("i18n: bundle path required")

//go:embed translations/default.json
var embedded embed.FS

// DefaultFixture returns the labels shipped with the module.
func DefaultFixture() (*Fixture, error) {
	raw, err := embedded.ReadFile("translations/default.json")
	if err != nil {
		return nil, fmt.Errorf("i18n: embedded bundle: %w", err)
	}
	return ParseFixture(raw, ".json")
}

// Loader reads a bundle from disk. Files ending in .yaml or .yml are decoded
// as YAML, anything else as JSON.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: strings.TrimSpace(path)}
}

func (l *Loader) Load(ctx context.Context) (*Fixture, error) {
	if l == nil || l.path == "" {
		return nil, ErrBundlePathRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read bundle %q: %w", l.path, err)
	}
	fx, err := ParseFixture(raw, filepath.Ext(l.path))
	if err != nil {
		return nil, fmt.Errorf("i18n: bundle %q: %w", l.path, err)
	}
	return fx, nil
}

// ParseFixture decodes raw using the format implied by ext. Unknown top level
// keys are rejected for JSON bundles.
func ParseFixture(raw []byte, ext string) (*Fixture, error) {
	var fx Fixture
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &fx); err != nil {
			return nil, err
		}
	default:
		if len(bytes.TrimSpace(raw)) > 0 {
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&fx); err != nil {
				return nil, err
			}
		}
	}
	if fx.Translations == nil {
		fx.Translations = map[string]map[string]string{}
	}
	return &fx, nil
}

// Merge overlays the messages of other onto fx. A non-empty default locale in
// other wins.
func (fx *Fixture) Merge(other *Fixture) {
	if fx == nil || other == nil {
		return
	}
	if other.Config.DefaultLocale != "" {
		fx.Config.DefaultLocale = other.Config.DefaultLocale
	}
	if fx.Translations == nil {
		fx.Translations = map[string]map[string]string{}
	}
	for locale, entries := range other.Translations {
		table := fx.Translations[locale]
		if table == nil {
			table = make(map[string]string, len(entries))
			fx.Translations[locale] = table
		}
		for key, msg := range entries {
			table[key] = msg
		}
	}
}

// LoadWithDefaults overlays the bundle at path on the embedded labels. An
// empty path yields the embedded bundle alone.
func LoadWithDefaults(ctx context.Context, path string) (*Fixture, error) {
	base, err := DefaultFixture()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	extra, err := NewLoader(path).Load(ctx)
	if err != nil {
		return nil, err
	}
	base.Merge(extra)
	return base, nil
}

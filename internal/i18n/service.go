package i18n

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-workflowui/pkg/interfaces"
)

// ErrMissingTranslation reports a key absent from every candidate locale.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// StaticTranslator serves translations from an in-memory fixture. Lookups fall
// back from a regional locale to its parent and then to the default locale.
type StaticTranslator struct {
	defaultLocale string
	messages      map[string]map[string]string
}

var _ interfaces.Translator = (*StaticTranslator)(nil)

// NewStaticTranslator builds a translator from a fixture.
func NewStaticTranslator(fx *Fixture) *StaticTranslator {
	t := &StaticTranslator{
		defaultLocale: "en",
		messages:      map[string]map[string]string{},
	}
	if fx == nil {
		return t
	}
	if locale := normalizeLocale(fx.Config.DefaultLocale); locale != "" {
		t.defaultLocale = locale
	}
	for locale, entries := range fx.Translations {
		key := normalizeLocale(locale)
		if t.messages[key] == nil {
			t.messages[key] = make(map[string]string, len(entries))
		}
		for k, v := range entries {
			t.messages[key][k] = v
		}
	}
	return t
}

// Default returns a translator over the embedded translations.
func Default() interfaces.Translator {
	fx, err := DefaultFixture()
	if err != nil {
		return NoOp()
	}
	return NewStaticTranslator(fx)
}

// Translate resolves key for locale and formats args into the message.
func (t *StaticTranslator) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range t.candidates(locale) {
		if msg, ok := t.messages[candidate][key]; ok {
			if len(args) == 0 {
				return msg, nil
			}
			return fmt.Sprintf(msg, args...), nil
		}
	}
	return key, fmt.Errorf("%w: %s", ErrMissingTranslation, key)
}

func (t *StaticTranslator) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if idx := strings.IndexByte(locale, '-'); idx > 0 {
			out = append(out, locale[:idx])
		}
	}
	return append(out, t.defaultLocale)
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}

// NoOp returns a translator that echoes keys back.
func NoOp() interfaces.Translator {
	return noopTranslator{}
}

type noopTranslator struct{}

func (noopTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	return key, nil
}

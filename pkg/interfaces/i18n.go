package interfaces

// Translator resolves localized strings. Arguments are applied as fmt verbs.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

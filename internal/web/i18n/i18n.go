// Package i18n — internationalization of the portal UI.
// Provides T(ctx, key) and Tf(ctx, key, args...) for translated strings
// from the HTTP request context.
// Supported languages: Svenska (sv), English (en).
// The language is set by the middleware: cookie "lang" →
// Accept-Language → default "sv".
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Supported languages
var (
	// SupportedLanguages — list of supported language tags.
	SupportedLanguages = []language.Tag{
		language.Swedish,
		language.English,
	}

	// matcher — language matcher for Accept-Language.
	matcher = language.NewMatcher(SupportedLanguages)
)

// contextKey — context key type (avoids collisions).
type contextKey string

const (
	// contextKeyLang — current language in the request context.
	contextKeyLang contextKey = "i18n_lang"
)

// Bundle — translation store for all languages.
// Loaded once at application startup.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	logger   *slog.Logger
}

// NewBundle creates an empty Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages loads the JSON translation catalog for one language.
// JSON format: {"key": "translation", ...} (flat).
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: parsing catalog %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Info("i18n catalog loaded",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate returns the translation for a key in the given language.
// Unknown keys come back verbatim (useful when debugging).
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if catalog, ok := b.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}

	// Fallback to Swedish, the primary catalog.
	if lang != "sv" {
		if catalog, ok := b.catalogs["sv"]; ok {
			if msg, ok := catalog[key]; ok {
				return msg
			}
		}
	}

	return key
}

// Translatef returns a translation with fmt.Sprintf argument
// substitution. The format string comes from the JSON catalog at
// runtime, so go vet cannot verify the arguments.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return formatFunc(template, args...)
}

// --- Global Bundle (singleton) ---

var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init initializes the global Bundle. Called once at startup.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// GetBundle returns the global Bundle (nil when uninitialized).
func GetBundle() *Bundle {
	return globalBundle
}

// --- Functions used from templ ---

// WithLang puts the language into the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext extracts the language from the context. Default: "sv".
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return "sv"
}

// T returns a translation using the language from the context.
// Main function for .templ files: { i18n.T(ctx, "key") }
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf returns a translation with fmt.Sprintf arguments.
// For .templ files: { i18n.Tf(ctx, "key", arg1, arg2) }
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// formatFunc — fmt.Sprintf through a variable to bypass the go vet
// printf analyzer; the format strings are loaded from JSON catalogs at
// runtime so static checking is impossible.
//
//nolint:govet
var formatFunc = fmt.Sprintf

// MatchLanguage picks the best language from an Accept-Language header.
// Returns "sv" or "en".
func MatchLanguage(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	lang := base.String()

	switch {
	case strings.HasPrefix(lang, "en"):
		return "en"
	default:
		return "sv"
	}
}

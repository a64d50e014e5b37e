// middleware.go — HTTP middleware detecting the user language.
// Priority: cookie "lang" → Accept-Language header → default "sv".
package i18n

import (
	"net/http"
)

// LangCookieName — cookie name holding the chosen language.
const LangCookieName = "lang"

// Middleware creates an HTTP middleware that detects the language and
// puts it into the request context.
// Priority: cookie "lang" → Accept-Language → default "sv".
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := detectLanguage(r)
			ctx := WithLang(r.Context(), lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// detectLanguage resolves the language of a request.
func detectLanguage(r *http.Request) string {
	// 1. Cookie "lang" (the user chose explicitly)
	if cookie, err := r.Cookie(LangCookieName); err == nil && cookie.Value != "" {
		lang := cookie.Value
		if lang == "sv" || lang == "en" {
			return lang
		}
	}

	// 2. Accept-Language header
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		return MatchLanguage(accept)
	}

	// 3. Default
	return "sv"
}

// language.go — UI language switch handler.
package handlers

import (
	"net/http"
	"time"

	"github.com/pontush81/portal/internal/web/i18n"
)

// HandleSetLanguage handles GET/POST /language.
// Sets the "lang" cookie and redirects back.
// Parameter lang: "sv" or "en" (query or form).
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if lang == "" {
		lang = r.URL.Query().Get("lang")
	}

	// Only supported languages
	if lang != "sv" && lang != "en" {
		lang = "sv"
	}

	// "lang" cookie for 1 year
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	// Back to the previous page (Referer) or the start page
	referer := r.Header.Get("Referer")
	if referer == "" {
		referer = "/"
	}

	http.Redirect(w, r, referer, http.StatusSeeOther)
}

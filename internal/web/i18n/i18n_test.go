package i18n

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	b := NewBundle(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := LoadFromEmbedFS(b, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("LoadFromEmbedFS() error: %v", err)
	}
	return b
}

func TestTranslate(t *testing.T) {
	b := testBundle(t)

	if got := b.Translate("sv", "toast.created"); got != "Din handbok har skapats!" {
		t.Errorf("Translate(sv, toast.created) = %q", got)
	}
	if got := b.Translate("en", "toast.created"); got != "Your handbook has been created!" {
		t.Errorf("Translate(en, toast.created) = %q", got)
	}
	// Unknown key comes back verbatim.
	if got := b.Translate("sv", "no.such.key"); got != "no.such.key" {
		t.Errorf("Translate() unknown key = %q", got)
	}
	// Unknown language falls back to Swedish.
	if got := b.Translate("de", "toast.created"); got != "Din handbok har skapats!" {
		t.Errorf("Translate(de) = %q, want the Swedish fallback", got)
	}
}

func TestTranslatef(t *testing.T) {
	b := testBundle(t)

	if got := b.Translatef("sv", "order.price.value", 299); got != "299 kr" {
		t.Errorf("Translatef(order.price.value, 299) = %q, want 299 kr", got)
	}
	if got := b.Translatef("sv", "order.step_of", 2); got != "Steg 2 av 3" {
		t.Errorf("Translatef(order.step_of, 2) = %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	b := testBundle(t)

	b.mu.RLock()
	defer b.mu.RUnlock()
	sv, en := b.catalogs["sv"], b.catalogs["en"]
	for key := range sv {
		if _, ok := en[key]; !ok {
			t.Errorf("key %q missing from the en catalog", key)
		}
	}
	for key := range en {
		if _, ok := sv[key]; !ok {
			t.Errorf("key %q missing from the sv catalog", key)
		}
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		accept string
		want   string
	}{
		{"sv-SE,sv;q=0.9", "sv"},
		{"en-US,en;q=0.9", "en"},
		{"da-DK", "sv"},
		{"", "sv"},
	}
	for _, tt := range tests {
		if got := MatchLanguage(tt.accept); got != tt.want {
			t.Errorf("MatchLanguage(%q) = %q, want %q", tt.accept, got, tt.want)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	// Cookie wins over the header.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en-US")
	r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "sv"})
	if got := detectLanguage(r); got != "sv" {
		t.Errorf("detectLanguage() with cookie = %q, want sv", got)
	}

	// Invalid cookie value falls through to the header.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en-US")
	r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "no"})
	if got := detectLanguage(r); got != "en" {
		t.Errorf("detectLanguage() with invalid cookie = %q, want en", got)
	}

	// No signals → default Swedish.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := detectLanguage(r); got != "sv" {
		t.Errorf("detectLanguage() default = %q, want sv", got)
	}
}

func TestLangContext(t *testing.T) {
	ctx := WithLang(context.Background(), "en")
	if got := LangFromContext(ctx); got != "en" {
		t.Errorf("LangFromContext() = %q, want en", got)
	}
	if got := LangFromContext(context.Background()); got != "sv" {
		t.Errorf("LangFromContext() empty context = %q, want sv", got)
	}
}

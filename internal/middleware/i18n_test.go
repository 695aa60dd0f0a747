package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func resolveLocale(t *testing.T, configure func(*http.Request), fallback string) string {
	t.Helper()
	var got string
	handler := I18N(fallback)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if configure != nil {
		configure(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestI18NXLocaleHeaderWins(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {
		r.Header.Set("X-Locale", "zh-CN")
		r.Header.Set("Accept-Language", "en-US")
	}, "en")
	if got != "zh" {
		t.Fatalf("locale = %q, want zh", got)
	}
}

func TestI18NAcceptLanguage(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {
		r.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8")
	}, "en")
	if got != "zh" {
		t.Fatalf("locale = %q, want zh", got)
	}
}

func TestI18NFallback(t *testing.T) {
	if got := resolveLocale(t, nil, "zh"); got != "zh" {
		t.Fatalf("locale = %q, want zh fallback", got)
	}
	if got := resolveLocale(t, nil, ""); got != "en" {
		t.Fatalf("locale = %q, want en default", got)
	}
}

func TestI18NUnknownLocaleNormalizesToEnglish(t *testing.T) {
	got := resolveLocale(t, func(r *http.Request) {
		r.Header.Set("X-Locale", "fr-FR")
	}, "zh")
	if got != "en" {
		t.Fatalf("locale = %q, want en", got)
	}
}

package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/order", "/order"},
		{"/metrics", "/metrics"},
		{"/confirmation/6f1c9a2e-1111-2222-3333-444455556666", "/confirmation/{id}"},
		{"/confirmation/", "/confirmation/"},
		{"/static/css/app.css", "/static/*"},
		{"/test/database", "/test/database"},
		{"/unknown", "/unknown"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

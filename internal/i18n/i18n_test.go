package i18n

import "testing"

func TestTranslator(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		key    string
		want   string
	}{
		{"known key", "en", "home.landing.title", "AI-Driven Development"},
		{"unknown key falls back to key", "en", "landing.nav.links.pricing", "landing.nav.links.pricing"},
		{"unknown locale uses default", "fr", "home.landing.cta", "Start building"},
		{"empty key", "en", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTranslator(tt.locale)(tt.key); got != tt.want {
				t.Errorf("translate(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

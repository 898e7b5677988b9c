// Package i18n resolves UI copy by key.
//
// There is a single English catalog. Lookups never fail: an unknown key,
// or a key missing from the requested locale, renders as the key itself so
// a missing entry is visible on the page instead of blank.
package i18n

// DefaultLocale is used when a requested locale has no catalog.
const DefaultLocale = "en"

var catalogs = map[string]map[string]string{
	"en": {
		"home.landing.title":    "AI-Driven Development",
		"home.landing.subtitle": "Kickstart your workspace with a translation-ready landing page.",
		"home.landing.cta":      "Start building",

		"landing.nav.brand": "Landing",
		"landing.nav.login": "Log in",
		"landing.nav.cta":   "Sign up",

		"auth.login.title":    "Log in",
		"auth.login.submit":   "Log in",
		"auth.login.error":    "Login failed. Check your email and password.",
		"auth.signup.title":   "Create an account",
		"auth.signup.submit":  "Sign up",
		"auth.signup.error":   "Signup failed. The email may already be registered.",
		"auth.field.name":     "Name",
		"auth.field.email":    "Email",
		"auth.field.password": "Password",
		"home.title":          "Welcome back",
		"home.subtitle":       "You are signed in.",
		"home.signout":        "Sign out",
	},
}

// Translator maps a key to display text.
type Translator func(key string) string

// NewTranslator returns a Translator for locale, falling back to
// DefaultLocale when the locale is unknown.
func NewTranslator(locale string) Translator {
	entries, ok := catalogs[locale]
	if !ok {
		entries = catalogs[DefaultLocale]
	}
	return func(key string) string {
		if v, ok := entries[key]; ok {
			return v
		}
		return key
	}
}

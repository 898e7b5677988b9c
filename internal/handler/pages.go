// Package handler contains the HTTP handlers: the JSON auth endpoints and
// the two HTML pages.
//
// Handlers parse the request, call the service layer and write the
// response. They hold no business rules; validation and uniqueness live in
// the service package.
package handler

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/sakif/landing-auth/internal/i18n"
)

const pageTitle = "AI-Driven Development"

// PageHandler renders the landing page and the protected home page.
//
// Each page is its own template set: base.html plus the page file, both
// parsed once at startup. The pages define the same "content" block, so
// they cannot share one set.
type PageHandler struct {
	landing *template.Template
	home    *template.Template
	locale  string
	logger  *slog.Logger
}

// NewPageHandler parses the templates from templatesFS. The "t" template
// function resolves UI copy through i18n, falling back to the key.
func NewPageHandler(templatesFS fs.FS, locale string, logger *slog.Logger) (*PageHandler, error) {
	funcs := template.FuncMap{"t": i18n.NewTranslator(locale)}

	landing, err := template.New("landing").Funcs(funcs).ParseFS(templatesFS, "base.html", "landing.html")
	if err != nil {
		return nil, err
	}
	home, err := template.New("home").Funcs(funcs).ParseFS(templatesFS, "base.html", "home.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		landing: landing,
		home:    home,
		locale:  locale,
		logger:  logger,
	}, nil
}

// HandleLanding serves GET /. Public.
func (h *PageHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.landing, "landing")
}

// HandleHome serves GET /home. Only reachable through the login gate.
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.home, "home")
}

func (h *PageHandler) render(w http.ResponseWriter, tmpl *template.Template, page string) {
	data := map[string]any{
		"Title":  pageTitle,
		"Locale": h.locale,
		"Page":   page,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

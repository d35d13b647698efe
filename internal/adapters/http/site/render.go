package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/okian/portal/internal/domain/identity"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/pkg/logger"
)

const missingValue = "—"

// Page templates, each parsed together with layout.html.
const (
	pageSignIn  = "signin.html"
	pageHome    = "home.html"
	pageSession = "session.html"
	pageProfile = "profile.html"
	pageAbout   = "about.html"
	pageStats   = "stats.html"
	pageError   = "error.html"
)

var pageNames = []string{pageSignIn, pageHome, pageSession, pageProfile, pageAbout, pageStats, pageError}

// mdRenderer renders the embedded About copy.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// pageData is what layout.html sees. Page holds the page specific values.
type pageData struct {
	Title     string
	Nav       string
	Player    *model.Player
	CSRFField template.HTML
	Error     string
	Page      any
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"num": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		// en-US long form: Tuesday, May 20, 2025
		"longDate": func(t time.Time) string {
			return t.In(h.loc).Format("Monday, January 2, 2006")
		},
		"clock": func(t time.Time) string {
			return t.In(h.loc).Format("03:04 PM")
		},
		"shortDate": func(t time.Time) string {
			if t.IsZero() {
				return missingValue
			}
			return t.In(h.loc).Format("1/2/2006")
		},
		"longTime": func(t time.Time) string {
			return t.In(h.loc).Format("3:04:05 PM")
		},
		"dash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return missingValue
			}
			return s
		},
	}
}

// parsePages parses every page with the shared layout.
func (h *Handler) parsePages() error {
	h.pages = make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(h.funcs()).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
		}
		h.pages[name] = tpl
	}

	// The About copy is static; render it once.
	var buf bytes.Buffer
	if err := mdRenderer.Convert(aboutMarkdown, &buf); err != nil {
		return fmt.Errorf("%w: about: %w", ErrTemplate, err)
	}
	h.about = template.HTML(buf.String()) //nolint:gosec // embedded, trusted markdown
	return nil
}

// render executes the page into a buffer so a template failure never leaves a
// half written response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if p, ok := identity.PlayerFromContext(r.Context()); ok {
		data.Player = &p
	}
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := h.pages[name].Execute(&buf, data); err != nil {
		h.internalError(r.Context(), w, fmt.Errorf("%w: %s: %w", ErrTemplate, name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func (h *Handler) internalError(ctx context.Context, w http.ResponseWriter, err error) {
	h.log.Error(ctx, "site render failed", logger.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/middleware"
	"github.com/liamwears/reelbase/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutTemplate = "templates/layout.html"

// Renderer handles template rendering
type Renderer struct {
	pages   map[string]*template.Template
	flasher *Flasher
	logger  *zap.Logger
}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	// stars converts a 0-10 vote into a 0-5 rating with half steps
	"stars": func(vote float64) float64 { return math.Round(vote) / 2 },
	"millions": func(amount int64) string {
		return fmt.Sprintf("$%.1fM", float64(amount)/1_000_000)
	},
	"genreLabel": func(g models.Genre) string { return g.Label() },
	"youtube": func(key string) string {
		return "https://www.youtube.com/embed/" + key
	},
}

// NewRenderer parses every page together with the shared layout
func NewRenderer(flasher *Flasher, logger *zap.Logger) (*Renderer, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		page := path.Base(name)
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(templatesFS, layoutTemplate, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Renderer{
		pages:   pages,
		flasher: flasher,
		logger:  logger,
	}, nil
}

// StaticHandler serves the embedded assets under /static/
func StaticHandler() http.Handler {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(assets)))
}

// RenderError renders the error page with a status code
func (r *Renderer) RenderError(w http.ResponseWriter, req *http.Request, status int, message string) {
	r.RenderPage(w, req, status, "error.html", map[string]interface{}{
		"Status":  status,
		"Message": message,
	})
}

// RenderPage renders a page with the session and pending flashes
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, status int, name string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	session, _ := middleware.SessionFromContext(req.Context())
	data["Session"] = session
	data["Authenticated"] = middleware.IsAuthenticated(req.Context())
	if r.flasher != nil {
		data["Flashes"] = r.flasher.Pop(w, req)
	}

	tmpl, ok := r.pages[name]
	if !ok {
		logger.From(req.Context(), r.logger).Error("unknown template", zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		logger.From(req.Context(), r.logger).Error("failed to render template",
			zap.String("template", name),
			zap.Error(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/mediabrowser/internal/metadata/tmdb"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	posterSize  = "w300"
	profileSize = "w185"

	// excerptLength bounds the overview shown on hover over a grid card.
	excerptLength = 240
)

// pages are rendered on top of templates/base.html.
var pages = []string{"listing", "watch", "error"}

// Renderer executes the page templates. Templates are parsed once.
type Renderer struct {
	tmpls  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses the embedded templates.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpls := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		tmpls[page] = t
	}
	return &Renderer{tmpls: tmpls, logger: logger}, nil
}

// Render writes page with the given status. The page is executed into a
// buffer first so a template failure never reaches the client half-written.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.tmpls[page]
	if !ok {
		r.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"year":       year,
		"posterURL":  func(path string) string { return tmdb.PosterURL(path, posterSize) },
		"profileURL": func(path string) string { return tmdb.PosterURL(path, profileSize) },
		"pageURL":    pageURL,
		"rating":     rating,
		"excerpt":    excerpt,
		"itoa":       strconv.Itoa,
		"add":        func(a, b int) int { return a + b },
		"subtract":   func(a, b int) int { return a - b },
	}
}

// year extracts the year of a YYYY-MM-DD date; empty when there is none.
func year(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func rating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// pageURL returns a listing link carrying every parameter of params with
// page replaced. params is not modified.
func pageURL(params url.Values, page int) string {
	next := make(url.Values, len(params)+1)
	for k, vs := range params {
		next[k] = append([]string(nil), vs...)
	}
	next.Set("page", strconv.Itoa(page))
	return "/?" + next.Encode()
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= excerptLength {
		return s
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "…"
}

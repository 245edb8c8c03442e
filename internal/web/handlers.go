// Package web serves the listing and watch pages and the JSON endpoints.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gorilla/mux"

	"github.com/vadimtrunov/mediabrowser/internal/catalog"
	"github.com/vadimtrunov/mediabrowser/internal/config"
	"github.com/vadimtrunov/mediabrowser/internal/core"
	"github.com/vadimtrunov/mediabrowser/internal/metadata/tmdb"
)

// Catalog builds the page view models.
type Catalog interface {
	Listing(ctx context.Context, q catalog.ListingQuery) (*catalog.Listing, error)
	Detail(ctx context.Context, id int, kind core.Kind) (*catalog.Detail, error)
}

// ShowSource returns upstream show documents untouched.
type ShowSource interface {
	ShowRaw(ctx context.Context, id string) (json.RawMessage, error)
	SeasonRaw(ctx context.Context, showID, season string) (json.RawMessage, error)
}

// Handler holds the dependencies of every route.
type Handler struct {
	catalog  Catalog
	shows    ShowSource
	streams  core.StreamResolver
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler creates a Handler and parses the page templates.
func NewHandler(cat Catalog, shows ShowSource, streams core.StreamResolver, logger *slog.Logger) (*Handler, error) {
	if cat == nil || shows == nil || streams == nil {
		return nil, errors.New("web: catalog, show source and stream resolver are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	renderer, err := NewRenderer(logger)
	if err != nil {
		return nil, err
	}
	return &Handler{
		catalog:  cat,
		shows:    shows,
		streams:  streams,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Routes returns the router with all middleware applied.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger(h.logger), requestMetrics, recoverPanics)

	r.HandleFunc("/", h.handleListing).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/watch/{id:[0-9]+}", h.handleWatch).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/api/stream/{id}", h.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/api/seasons/{id}", h.handleShow).Methods(http.MethodGet)
	r.HandleFunc("/api/episodes/{showId}/{season}", h.handleSeason).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	}).Methods(http.MethodGet)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: embedded static directory missing: " + err.Error())
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.renderError(w, http.StatusNotFound, "Nothing lives at this address.")
	})
	return r
}

// option is one entry of a fixed select box.
type option struct {
	Value string
	Label string
}

var (
	sortOptions = []option{
		{"popularity.desc", "Most Popular"},
		{"vote_average.desc", "Highest Rated"},
		{"primary_release_date.desc", "Newest"},
		{"primary_release_date.asc", "Oldest"},
		{"revenue.desc", "Highest Revenue"},
	}
	qualityOptions = []option{
		{"", "Any Quality"},
		{"HD", "HD"},
		{"FHD", "Full HD"},
		{"4K", "4K"},
	}
)

type listingPage struct {
	*catalog.Listing
	Heading   string
	Sorts     []option
	Qualities []option
}

type errorPage struct {
	Status     int
	StatusText string
	Message    string
}

func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	q := catalog.ParseListingQuery(r.URL.Query())
	listing, err := h.catalog.Listing(r.Context(), q)
	if err != nil {
		config.LoggerFromContext(r.Context()).Error("listing failed", slog.String("error", err.Error()))
		h.renderError(w, http.StatusBadGateway, "The catalog could not be loaded. Please try again.")
		return
	}

	h.renderer.Render(w, http.StatusOK, "listing", listingPage{
		Listing:   listing,
		Heading:   heading(q),
		Sorts:     sortOptions,
		Qualities: qualityOptions,
	})
}

func heading(q catalog.ListingQuery) string {
	switch {
	case q.Query != "":
		return `Search Results: "` + q.Query + `"`
	case q.PersonID != "" && q.PersonName != "":
		return q.Kind.Label() + " with " + q.PersonName
	default:
		return "Popular " + q.Kind.Label()
	}
}

func (h *Handler) handleWatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		h.renderError(w, http.StatusNotFound, "Unknown title.")
		return
	}
	kind := core.ParseKind(r.URL.Query().Get("type"))

	detail, err := h.catalog.Detail(r.Context(), id, kind)
	if errors.Is(err, tmdb.ErrNotFound) {
		h.renderError(w, http.StatusNotFound, "This title does not exist.")
		return
	}
	if err != nil {
		config.LoggerFromContext(r.Context()).Error("detail failed",
			slog.Int("id", id),
			slog.String("error", err.Error()),
		)
		h.renderError(w, http.StatusBadGateway, "The title could not be loaded. Please try again.")
		return
	}

	h.renderer.Render(w, http.StatusOK, "watch", detail)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	req := core.StreamRequest{
		VideoID:    mux.Vars(r)["id"],
		ExternalID: params.Get("tmdb"),
		Season:     atoiOrZero(params.Get("s")),
		Episode:    atoiOrZero(params.Get("e")),
	}

	res, err := h.streams.Resolve(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	raw, err := h.shows.ShowRaw(r.Context(), mux.Vars(r)["id"])
	h.writeRaw(w, r, raw, err)
}

func (h *Handler) handleSeason(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	raw, err := h.shows.SeasonRaw(r.Context(), vars["showId"], vars["season"])
	h.writeRaw(w, r, raw, err)
}

// upstreamUnavailable is the only failure detail passthrough clients see.
const upstreamUnavailable = "upstream unavailable"

// writeRaw relays an upstream document, or a JSON error when it could not be fetched.
func (h *Handler) writeRaw(w http.ResponseWriter, r *http.Request, raw json.RawMessage, err error) {
	if errors.Is(err, tmdb.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if err != nil {
		config.LoggerFromContext(r.Context()).Error("passthrough failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": upstreamUnavailable})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) renderError(w http.ResponseWriter, status int, message string) {
	h.renderer.Render(w, status, "error", errorPage{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
)

// MovieHandler proxies movie and genre lookups to a [services.Provider].
//
// Details, credits, videos and similar titles share the "{id}/{relation}" pattern; literal segments such as
// "trending" and "search" take precedence over the id wildcard.
type MovieHandler struct {
	provider services.Provider
	logger   *log.Logger
}

// NewMovieHandler creates a [MovieHandler] backed by provider.
func NewMovieHandler(provider services.Provider, logger *log.Logger) *MovieHandler {
	return &MovieHandler{provider: provider, logger: logger}
}

func (h *MovieHandler) Routes() []string {
	return []string{
		"GET /api/movies/trending/{window}",
		"GET /api/movies/search",
		"GET /api/movies/discover",
		"GET /api/movies/{id}",
		"GET /api/movies/{id}/{relation}",
		"GET /api/genres",
	}
}

func (h *MovieHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/movies/trending/{window}":
		h.trending(w, r)
	case "GET /api/movies/search":
		h.search(w, r)
	case "GET /api/movies/discover":
		h.discover(w, r)
	case "GET /api/movies/{id}":
		h.detail(w, r)
	case "GET /api/movies/{id}/{relation}":
		h.relation(w, r)
	case "GET /api/genres":
		h.genres(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// respond writes v, or maps err: not found to 404, validation to 400, anything else to 500 with failure.
func (h *MovieHandler) respond(w http.ResponseWriter, v any, err error, failure string) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, v)
	case errors.Is(err, shared.ErrNotFound):
		writeError(w, http.StatusNotFound, "Movie not found")
	case errors.Is(err, shared.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(failure, "error", err)
		writeError(w, http.StatusInternalServerError, failure)
	}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *MovieHandler) trending(w http.ResponseWriter, r *http.Request) {
	window := r.PathValue("window")
	if window != "day" && window != "week" {
		writeError(w, http.StatusBadRequest, "Time window must be day or week")
		return
	}
	page, err := h.provider.Trending(r.Context(), window, pageParam(r))
	h.respond(w, page, err, "Failed to fetch trending movies")
}

func (h *MovieHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}
	page, err := h.provider.Search(r.Context(), query, pageParam(r))
	h.respond(w, page, err, "Failed to search movies")
}

func (h *MovieHandler) discover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var params models.DiscoverParams

	if v := q.Get("genre"); v != "" {
		genre, err := strconv.Atoi(v)
		if err != nil || genre < 1 {
			writeError(w, http.StatusBadRequest, "genre must be a positive integer")
			return
		}
		params.Genre = genre
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 {
			writeError(w, http.StatusBadRequest, "year must be a positive integer")
			return
		}
		params.Year = year
	}
	params.SortBy = q.Get("sort_by")

	page, err := h.provider.Discover(r.Context(), params, pageParam(r))
	h.respond(w, page, err, "Failed to discover movies")
}

func movieID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Movie id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *MovieHandler) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	detail, err := h.provider.MovieDetail(r.Context(), id)
	h.respond(w, detail, err, "Failed to fetch movie details")
}

func (h *MovieHandler) relation(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	switch r.PathValue("relation") {
	case "credits":
		credits, err := h.provider.Credits(ctx, id)
		h.respond(w, credits, err, "Failed to fetch movie credits")
	case "videos":
		videos, err := h.provider.Videos(ctx, id)
		h.respond(w, videos, err, "Failed to fetch movie videos")
	case "similar":
		similar, err := h.provider.Similar(ctx, id)
		h.respond(w, similar, err, "Failed to fetch similar movies")
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *MovieHandler) genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.provider.Genres(r.Context())
	h.respond(w, models.GenreList{Genres: genres}, err, "Failed to fetch genres")
}

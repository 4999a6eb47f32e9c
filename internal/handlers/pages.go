package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/medetbek/moviedb/internal/middleware"
	"github.com/medetbek/moviedb/internal/viewmodel"
)

// PageHandler renders the read-only catalog pages.
type PageHandler struct {
	catalog      Catalog
	sessionStore SessionStore
	renderer     *Renderer
	logger       *log.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(catalog Catalog, sessionStore SessionStore, renderer *Renderer, logger *log.Logger) *PageHandler {
	return &PageHandler{
		catalog:      catalog,
		sessionStore: sessionStore,
		renderer:     renderer,
		logger:       logger,
	}
}

// Home handles GET / with the statistics dashboard.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	data := map[string]interface{}{
		"Session":    session,
		"ActivePage": "home",
		"Flash":      popFlash(w, r),
	}

	movies, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list movies for statistics: %v", err)
		data["LoadError"] = true
		h.renderer.RenderPage(w, "home.html", data)
		return
	}

	data["Ratings"] = viewmodel.RatingRanking(movies)
	data["Views"] = viewmodel.ViewsRanking(movies)
	data["Years"] = viewmodel.MoviesByYear(movies)
	h.renderer.RenderPage(w, "home.html", data)
}

// MovieList handles GET /movies. A query parameter updates the shared
// search query; without one the session's stored query is applied, so
// a search typed in the header carries into this page.
func (h *PageHandler) MovieList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	sessionID, _ := middleware.GetSessionIDFromContext(r.Context())

	query := session.Query
	if r.URL.Query().Has("query") {
		query = strings.TrimSpace(r.URL.Query().Get("query"))
		if err := h.sessionStore.SetQuery(r.Context(), sessionID, query); err != nil {
			h.logger.Printf("Failed to store search query: %v", err)
		}
	}

	data := map[string]interface{}{
		"Session":    session,
		"ActivePage": "movies",
		"Flash":      popFlash(w, r),
		"Query":      query,
	}

	movies, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list movies: %v", err)
		data["LoadError"] = true
		h.renderer.RenderPage(w, "movies.html", data)
		return
	}

	data["View"] = viewmodel.NewListView(movies, query)
	h.renderer.RenderPage(w, "movies.html", data)
}

// MovieTable handles GET /movies/table with sortable columns.
func (h *PageHandler) MovieTable(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	spec := viewmodel.DefaultSort()
	if key := r.URL.Query().Get("sort"); key != "" {
		spec.Key = viewmodel.SortKey(key)
		spec.Direction = viewmodel.Ascending
		if r.URL.Query().Get("dir") == string(viewmodel.Descending) {
			spec.Direction = viewmodel.Descending
		}
	}

	data := map[string]interface{}{
		"Session":    session,
		"ActivePage": "table",
		"Flash":      popFlash(w, r),
		"Spec":       spec,
		// Where a click on each column header leads from the current ordering.
		"Next": map[string]viewmodel.SortSpec{
			"title":       spec.Toggle(viewmodel.SortByTitle),
			"ageRating":   spec.Toggle(viewmodel.SortByAgeRating),
			"rating":      spec.Toggle(viewmodel.SortByRating),
			"duration":    spec.Toggle(viewmodel.SortByDuration),
			"releaseYear": spec.Toggle(viewmodel.SortByReleaseYear),
		},
	}

	movies, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list movies: %v", err)
		data["LoadError"] = true
		h.renderer.RenderPage(w, "movie-table.html", data)
		return
	}

	sorted, err := viewmodel.Sort(movies, spec)
	if err != nil {
		// Malformed duration in the collection is a broken invariant,
		// not a user error.
		h.logger.Printf("Refusing to sort movie table: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data["Movies"] = sorted
	h.renderer.RenderPage(w, "movie-table.html", data)
}

// MovieDetail handles GET /movies/{id}.
func (h *PageHandler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	data := map[string]interface{}{
		"Session":    session,
		"ActivePage": "movies",
		"Flash":      popFlash(w, r),
	}

	movie, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Printf("Failed to get movie: %v", err)
		data["LoadError"] = true
		h.renderer.RenderPage(w, "movie-detail.html", data)
		return
	}

	data["Movie"] = movie
	h.renderer.RenderPage(w, "movie-detail.html", data)
}

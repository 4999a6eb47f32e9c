package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/medetbek/moviedb/internal/middleware"
	"github.com/medetbek/moviedb/internal/models"
	"github.com/medetbek/moviedb/internal/services"
	"github.com/medetbek/moviedb/internal/viewmodel"
)

// maxFormMemory bounds the in-memory portion of a multipart parse.
const maxFormMemory = 32 << 20

// FormHandler drives the create, edit, and delete workflows.
type FormHandler struct {
	catalog   Catalog
	validator *viewmodel.FormValidator
	renderer  *Renderer
	logger    *log.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(catalog Catalog, validator *viewmodel.FormValidator, renderer *Renderer, logger *log.Logger) *FormHandler {
	return &FormHandler{
		catalog:   catalog,
		validator: validator,
		renderer:  renderer,
		logger:    logger,
	}
}

// formYears lists the selectable release years, newest first.
func formYears() []int {
	max := models.MaxReleaseYear()
	years := make([]int, 0, max-models.MinReleaseYear+1)
	for y := max; y >= models.MinReleaseYear; y-- {
		years = append(years, y)
	}
	return years
}

func (h *FormHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form viewmodel.MovieForm, mode viewmodel.FormMode, errs viewmodel.FieldErrors, flash *Flash) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	if flash == nil {
		flash = popFlash(w, r)
	}

	data := map[string]interface{}{
		"Session":    session,
		"ActivePage": "add",
		"Flash":      flash,
		"Errors":     errs,
		"Form":       form,
		"EditMode":   mode == viewmodel.EditMode,
		"AgeRatings": models.AgeRatings,
		"Years":      formYears(),
	}
	if mode == viewmodel.EditMode {
		data["ActivePage"] = "movies"
	}

	h.renderer.RenderPageStatus(w, status, "movie-form.html", data)
}

// NewMovie handles GET /movies/new.
func (h *FormHandler) NewMovie(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, viewmodel.NewMovieForm(), viewmodel.CreateMode, nil, nil)
}

// CreateMovie handles POST /movies/new. Validation failures and backend
// failures both re-render the form with the entered state preserved.
func (h *FormHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	form, err := parseMovieForm(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if errs := h.validator.Validate(form, viewmodel.CreateMode); len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, viewmodel.CreateMode, errs, nil)
		return
	}

	payload, err := viewmodel.BuildPayload(form, viewmodel.CreateMode)
	if err != nil {
		h.logger.Printf("Failed to build create payload: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.catalog.Create(r.Context(), payload.ContentType, bytes.NewReader(payload.Body)); err != nil {
		h.logger.Printf("Failed to create movie: %v", err)
		h.renderForm(w, r, http.StatusOK, form, viewmodel.CreateMode, nil, &Flash{Kind: "error", Message: "Failed to add movie"})
		return
	}

	setFlash(w, "success", "Movie added successfully!")
	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

// EditMovie handles GET /movies/{id}/edit, pre-populated from the
// fetched collection. An unknown ID renders an empty form (with the
// one blank actor row every form carries) rather than an error; known
// gap, kept as-is.
func (h *FormHandler) EditMovie(w http.ResponseWriter, r *http.Request) {
	form := viewmodel.MovieForm{ID: r.PathValue("id"), Actors: []viewmodel.ActorField{{}}}

	movie, err := h.catalog.Find(r.Context(), r.PathValue("id"))
	if err == nil {
		form = viewmodel.FormFromMovie(*movie)
	} else if !errors.Is(err, services.ErrMovieNotFound) {
		h.logger.Printf("Failed to resolve edit target: %v", err)
	}

	h.renderForm(w, r, http.StatusOK, form, viewmodel.EditMode, nil, nil)
}

// UpdateMovie handles POST /movies/{id}/edit.
func (h *FormHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, err := parseMovieForm(r)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form.ID = id

	if errs := h.validator.Validate(form, viewmodel.EditMode); len(errs) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, viewmodel.EditMode, errs, nil)
		return
	}

	payload, err := viewmodel.BuildPayload(form, viewmodel.EditMode)
	if err != nil {
		h.logger.Printf("Failed to build update payload: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.catalog.Update(r.Context(), id, payload.ContentType, bytes.NewReader(payload.Body)); err != nil {
		h.logger.Printf("Failed to update movie: %v", err)
		h.renderForm(w, r, http.StatusOK, form, viewmodel.EditMode, nil, &Flash{Kind: "error", Message: "Failed to update movie"})
		return
	}

	setFlash(w, "success", "Movie updated successfully!")
	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

// ConfirmDelete handles GET /movies/{id}/delete.
func (h *FormHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())

	data := map[string]interface{}{
		"Session":    session,
		"ActivePage": "movies",
		"ID":         r.PathValue("id"),
	}

	movie, err := h.catalog.Find(r.Context(), r.PathValue("id"))
	if err == nil {
		data["Movie"] = movie
	}

	h.renderer.RenderPage(w, "movie-delete.html", data)
}

// DeleteMovie handles POST /movies/{id}/delete.
func (h *FormHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.logger.Printf("Failed to delete movie: %v", err)
		setFlash(w, "error", "Failed to delete movie")
		http.Redirect(w, r, "/movies/"+id, http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Movie deleted")
	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

// parseMovieForm maps a submitted multipart form onto the form
// view-model. Actor rows arrive as parallel actorName / actorImagePath
// fields plus one actorImage<index> file field per row. The index in
// the field name ties an upload to its row: a file input left empty
// submits filename="" and lands under Value, so positional matching
// against the File slice would shift uploads onto the wrong actor.
func parseMovieForm(r *http.Request) (viewmodel.MovieForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return viewmodel.MovieForm{}, err
	}

	form := viewmodel.MovieForm{
		Title:     strings.TrimSpace(r.FormValue("title")),
		AgeRating: r.FormValue("ageRating"),
		Producer:  strings.TrimSpace(r.FormValue("producer")),
		Story:     r.FormValue("story"),
		Duration:  strings.TrimSpace(r.FormValue("duration")),
	}

	form.Rating, _ = strconv.ParseFloat(r.FormValue("rating"), 64)
	form.ReleaseYear, _ = strconv.Atoi(r.FormValue("releaseYear"))

	if raw := strings.TrimSpace(r.FormValue("views")); raw != "" {
		if views, err := strconv.ParseInt(raw, 10, 64); err == nil {
			form.Views = &views
		}
	}

	form.Poster.Path = r.FormValue("posterPath")
	if upload, err := readUpload(r, "poster"); err != nil {
		return viewmodel.MovieForm{}, err
	} else if upload != nil {
		form.Poster.Upload = upload
	}

	names := r.MultipartForm.Value["actorName"]
	paths := r.MultipartForm.Value["actorImagePath"]

	for i, name := range names {
		actor := viewmodel.ActorField{Name: strings.TrimSpace(name)}
		if i < len(paths) {
			actor.Image.Path = paths[i]
		}
		if headers := r.MultipartForm.File[fmt.Sprintf("actorImage%d", i)]; len(headers) > 0 && headers[0].Filename != "" {
			upload, err := readUploadHeader(headers[0])
			if err != nil {
				return viewmodel.MovieForm{}, err
			}
			actor.Image.Upload = upload
		}
		form.Actors = append(form.Actors, actor)
	}

	return form, nil
}

// readUpload reads a single named file field, returning nil when the
// field is absent or was left empty.
func readUpload(r *http.Request, field string) (*viewmodel.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &viewmodel.FileUpload{Filename: header.Filename, Data: data}, nil
}

func readUploadHeader(header *multipart.FileHeader) (*viewmodel.FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &viewmodel.FileUpload{Filename: header.Filename, Data: data}, nil
}

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/medetbek/moviedb/internal/viewmodel"
)

// editSubmission builds a browser-shaped edit form with two actor rows:
// the first keeps its stored image (its file input submits with an
// empty filename), the second carries a newly chosen file.
func editSubmission(t *testing.T) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       "The Matrix",
		"ageRating":   "R",
		"producer":    "Joel Silver",
		"story":       strings.Repeat("a", 60),
		"duration":    "2h 16min",
		"rating":      "8.7",
		"releaseYear": "1999",
		"posterPath":  "/images/poster.jpg",
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}

	for _, actor := range []struct{ name, path string }{
		{"Keanu Reeves", "/images/keanu.jpg"},
		{"Carrie-Anne Moss", "/images/carrie.jpg"},
	} {
		w.WriteField("actorName", actor.name)
		w.WriteField("actorImagePath", actor.path)
	}

	// Row 0: file input left empty, submitted with filename="".
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="actorImage0"; filename=""`)
	header.Set("Content-Type", "application/octet-stream")
	if _, err := w.CreatePart(header); err != nil {
		t.Fatalf("failed to create empty file part: %v", err)
	}

	// Row 1: a new image was chosen.
	part, err := w.CreateFormFile("actorImage1", "carrie-new.jpg")
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := part.Write([]byte("new-image-bytes")); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/movies/abc/edit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestParseMovieFormUploadStaysOnItsRow(t *testing.T) {
	form, err := parseMovieForm(editSubmission(t))
	if err != nil {
		t.Fatalf("parseMovieForm returned error: %v", err)
	}
	if len(form.Actors) != 2 {
		t.Fatalf("parsed %d actors, want 2", len(form.Actors))
	}

	first := form.Actors[0]
	if first.Image.HasUpload() {
		t.Errorf("first actor picked up upload %q, want its stored path kept", first.Image.Upload.Filename)
	}
	if first.Image.Path != "/images/keanu.jpg" {
		t.Errorf("first actor path = %q, want /images/keanu.jpg", first.Image.Path)
	}

	second := form.Actors[1]
	if !second.Image.HasUpload() {
		t.Fatal("second actor lost its newly chosen image")
	}
	if second.Image.Upload.Filename != "carrie-new.jpg" {
		t.Errorf("second actor upload = %q, want carrie-new.jpg", second.Image.Upload.Filename)
	}
	if second.Image.Path != "/images/carrie.jpg" {
		t.Errorf("second actor path = %q, want /images/carrie.jpg", second.Image.Path)
	}
}

func TestCreateMovieInvalidFormKeepsHeaders(t *testing.T) {
	catalog := &stubCatalog{}
	handler := NewFormHandler(catalog, viewmodel.NewFormValidator(), testRenderer(t), testLogger())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", "")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/movies/new", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "flash", Value: "success%7Cdone"})
	rec := httptest.NewRecorder()
	handler.CreateMovie(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	// The pending flash is consumed, so its clearing cookie must survive
	// the early status write.
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("flash cookie was not cleared alongside the error status")
	}

	if catalog.created {
		t.Error("an invalid form must not reach the backend")
	}
	if !strings.Contains(rec.Body.String(), "Title is required") {
		t.Error("inline validation message missing from the page")
	}
}

func TestEditMovieUnknownIDRendersEmptyForm(t *testing.T) {
	catalog := &stubCatalog{}
	handler := NewFormHandler(catalog, viewmodel.NewFormValidator(), testRenderer(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/movies/ghost/edit", nil)
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()
	handler.EditMovie(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `action="/movies/ghost/edit"`) {
		t.Error("form should target the requested ID")
	}
	if !strings.Contains(body, `name="actorName"`) {
		t.Error("empty form should still render one blank actor row")
	}
}

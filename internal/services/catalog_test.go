package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medetbek/moviedb/internal/models"
)

func TestCatalogList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/movies" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `[{"_id":"abc","title":"The Matrix","ageRating":"R","duration":"2h 16min","rating":8.7,"releaseYear":1999}]`)
	}))
	defer srv.Close()

	svc := NewCatalogService(CatalogConfig{BaseURL: srv.URL})
	movies, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("got %d movies, want 1", len(movies))
	}
	if movies[0].ID != "abc" || movies[0].AgeRating != models.RatingR {
		t.Errorf("decoded movie = %+v, want ID abc with rating R", movies[0])
	}
}

func TestCatalogGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movies/abc" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"_id":"abc","title":"The Matrix"}`)
	}))
	defer srv.Close()

	svc := NewCatalogService(CatalogConfig{BaseURL: srv.URL})
	movie, err := svc.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if movie.Title != "The Matrix" {
		t.Errorf("title = %q, want The Matrix", movie.Title)
	}
}

func TestCatalogCreateSendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/movies" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("content type = %q, want multipart/form-data", ct)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"_id":"new","title":"Created"}`)
	}))
	defer srv.Close()

	svc := NewCatalogService(CatalogConfig{BaseURL: srv.URL})
	movie, err := svc.Create(context.Background(), "multipart/form-data; boundary=x", strings.NewReader("--x--"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if movie.ID != "new" {
		t.Errorf("created ID = %q, want new", movie.ID)
	}
}

func TestCatalogUpdateUsesPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/movies/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"_id":"abc","title":"Updated"}`)
	}))
	defer srv.Close()

	svc := NewCatalogService(CatalogConfig{BaseURL: srv.URL})
	movie, err := svc.Update(context.Background(), "abc", "multipart/form-data; boundary=x", strings.NewReader("--x--"))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if movie.Title != "Updated" {
		t.Errorf("title = %q, want Updated", movie.Title)
	}
}

func TestCatalogMutationFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewCatalogService(CatalogConfig{BaseURL: srv.URL})

	if _, err := svc.Create(context.Background(), "multipart/form-data", strings.NewReader("")); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("Create error = %v, want ErrRequestFailed", err)
	}
	if _, err := svc.Update(context.Background(), "abc", "multipart/form-data", strings.NewReader("")); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("Update error = %v, want ErrRequestFailed", err)
	}
	if _, err := svc.Delete(context.Background(), "abc"); !errors.Is(err, ErrRequestFailed) {
		t.Errorf("Delete error = %v, want ErrRequestFailed", err)
	}
}

func TestCatalogDeleteReturnsConfirmation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/movies/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	svc := NewCatalogService(CatalogConfig{BaseURL: srv.URL})
	confirmation, err := svc.Delete(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if confirmation["message"] != "deleted" {
		t.Errorf("confirmation = %v, want message deleted", confirmation)
	}
}

func TestImageURL(t *testing.T) {
	svc := NewCatalogService(CatalogConfig{BaseURL: "https://api.example.com/"})

	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"https://cdn.example.com/poster.jpg", "https://cdn.example.com/poster.jpg"},
		{"http://cdn.example.com/poster.jpg", "http://cdn.example.com/poster.jpg"},
		{"/images/poster.jpg", "https://api.example.com/images/poster.jpg"},
	}

	for _, tt := range tests {
		if got := svc.ImageURL(tt.path); got != tt.want {
			t.Errorf("ImageURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/medetbek/moviedb/internal/models"
)

// ErrRequestFailed is returned when a mutating request comes back with a
// non-2xx status. The backend's error body is not parsed, every failure
// looks the same to callers.
var ErrRequestFailed = errors.New("request failed")

// CatalogService is the client for the remote movies API. It issues one
// HTTP request per operation, with no retries.
type CatalogService struct {
	client  *http.Client
	baseURL string
}

// CatalogConfig holds catalog service configuration
type CatalogConfig struct {
	BaseURL string
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogConfig) *CatalogService {
	return &CatalogService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// List retrieves the full movie collection.
func (s *CatalogService) List(ctx context.Context) ([]models.Movie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/movies", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var movies []models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal movies: %w", err)
	}
	return movies, nil
}

// Get retrieves a single movie by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Movie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/movies/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var movie models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("failed to unmarshal movie: %w", err)
	}
	return &movie, nil
}

// Create submits a multipart payload describing a new movie and returns
// the created record.
func (s *CatalogService) Create(ctx context.Context, contentType string, body io.Reader) (*models.Movie, error) {
	return s.submit(ctx, http.MethodPost, s.baseURL+"/movies", contentType, body)
}

// Update submits a full-record multipart payload for an existing movie.
func (s *CatalogService) Update(ctx context.Context, id, contentType string, body io.Reader) (*models.Movie, error) {
	return s.submit(ctx, http.MethodPut, s.baseURL+"/movies/"+id, contentType, body)
}

func (s *CatalogService) submit(ctx context.Context, method, url, contentType string, body io.Reader) (*models.Movie, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var movie models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("failed to unmarshal movie: %w", err)
	}
	return &movie, nil
}

// Delete removes a movie by ID and returns the backend's confirmation
// body.
func (s *CatalogService) Delete(ctx context.Context, id string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/movies/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var confirmation map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal confirmation: %w", err)
	}
	return confirmation, nil
}

// ImageURL resolves a poster or actor image reference to an absolute URL.
// Absolute URLs pass through, backend-relative paths are prefixed with
// the API base URL.
func (s *CatalogService) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return s.baseURL + path
}

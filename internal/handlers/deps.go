package handlers

import (
	"context"
	"io"

	"github.com/medetbek/moviedb/internal/database"
	"github.com/medetbek/moviedb/internal/models"
)

// Catalog is the catalog surface the page and form handlers consume.
// *services.CachedCatalog satisfies it.
type Catalog interface {
	List(ctx context.Context) ([]models.Movie, error)
	Get(ctx context.Context, id string) (*models.Movie, error)
	Find(ctx context.Context, id string) (*models.Movie, error)
	Create(ctx context.Context, contentType string, body io.Reader) (*models.Movie, error)
	Update(ctx context.Context, id, contentType string, body io.Reader) (*models.Movie, error)
	Delete(ctx context.Context, id string) error
	ImageURL(path string) string
}

// SessionStore is the subset of the session store the handlers use.
// *database.SessionStore satisfies it.
type SessionStore interface {
	GenerateSessionID() (string, error)
	Save(ctx context.Context, sessionID string, sess database.Session) error
	SetQuery(ctx context.Context, sessionID, query string) error
	Delete(ctx context.Context, sessionID string) error
}

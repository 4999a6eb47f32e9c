package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medetbek/moviedb/internal/database"
	"github.com/medetbek/moviedb/internal/models"
)

// ErrMovieNotFound is returned when an ID cannot be located in the
// fetched collection.
var ErrMovieNotFound = errors.New("movie not found")

// moviesKey is the logical identity of the cached collection. Every
// reader of "all movies" shares this one entry.
const moviesKey = "movies:all"

// CachedCatalog wraps the catalog client with the shared collection
// cache. Reads serve the cached snapshot while it is fresh; every
// successful mutation invalidates it so the next read refetches.
type CachedCatalog struct {
	catalog  *CatalogService
	redis    *database.RedisClient
	staleTTL time.Duration
	logger   *log.Logger
}

// NewCachedCatalog creates a new cached catalog
func NewCachedCatalog(catalog *CatalogService, redisClient *database.RedisClient, staleTTL time.Duration, logger *log.Logger) *CachedCatalog {
	if staleTTL == 0 {
		staleTTL = 10 * time.Second
	}
	return &CachedCatalog{
		catalog:  catalog,
		redis:    redisClient,
		staleTTL: staleTTL,
		logger:   logger,
	}
}

// List returns the movie collection, from cache when fresh.
func (c *CachedCatalog) List(ctx context.Context) ([]models.Movie, error) {
	raw, err := c.redis.Get(ctx, moviesKey).Result()
	if err == nil {
		var movies []models.Movie
		if err := json.Unmarshal([]byte(raw), &movies); err == nil {
			return movies, nil
		}
		// Unreadable entry, fall through to a refetch
		c.logger.Printf("Dropping unreadable cache entry %s", moviesKey)
	} else if err != redis.Nil {
		c.logger.Printf("Cache read failed, fetching directly: %v", err)
	}

	return c.Refresh(ctx)
}

// Refresh fetches the collection from the backend and replaces the
// cached snapshot. A refresh supersedes whatever was cached before, it
// never cancels an in-flight fetch.
func (c *CachedCatalog) Refresh(ctx context.Context) ([]models.Movie, error) {
	movies, err := c.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(movies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movies for cache: %w", err)
	}
	if err := c.redis.Set(ctx, moviesKey, raw, c.staleTTL).Err(); err != nil {
		// Serving the fetched result matters more than caching it
		c.logger.Printf("Failed to cache movie collection: %v", err)
	}
	return movies, nil
}

// Invalidate marks the cached collection stale.
func (c *CachedCatalog) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, moviesKey).Err(); err != nil {
		c.logger.Printf("Failed to invalidate movie cache: %v", err)
	}
}

// Find locates a movie by ID inside the fetched collection.
func (c *CachedCatalog) Find(ctx context.Context, id string) (*models.Movie, error) {
	movies, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		if movies[i].ID == id {
			return &movies[i], nil
		}
	}
	return nil, ErrMovieNotFound
}

// Get fetches a single movie straight from the backend.
func (c *CachedCatalog) Get(ctx context.Context, id string) (*models.Movie, error) {
	return c.catalog.Get(ctx, id)
}

// Create submits a new movie and invalidates the collection cache.
func (c *CachedCatalog) Create(ctx context.Context, contentType string, body io.Reader) (*models.Movie, error) {
	movie, err := c.catalog.Create(ctx, contentType, body)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx)
	return movie, nil
}

// Update submits a full-record update and invalidates the collection cache.
func (c *CachedCatalog) Update(ctx context.Context, id, contentType string, body io.Reader) (*models.Movie, error) {
	movie, err := c.catalog.Update(ctx, id, contentType, body)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx)
	return movie, nil
}

// Delete removes a movie and invalidates the collection cache.
func (c *CachedCatalog) Delete(ctx context.Context, id string) error {
	if _, err := c.catalog.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// ImageURL resolves an image reference through the catalog client.
func (c *CachedCatalog) ImageURL(path string) string {
	return c.catalog.ImageURL(path)
}

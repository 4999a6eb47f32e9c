package database

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned when a session ID has no stored record.
var ErrSessionNotFound = errors.New("session not found")

// Session is the browser-scoped state persisted across page loads: the
// authentication flag with its username, plus the search query shared
// between the header box and the movie list page.
type Session struct {
	Username      string
	Authenticated bool
	Query         string
}

// SessionStore persists sessions in Redis, one hash per session ID.
type SessionStore struct {
	client *RedisClient
	ttl    time.Duration
}

// NewSessionStore creates a new session store
func NewSessionStore(client *RedisClient, ttl time.Duration) *SessionStore {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour // default 7 days
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

// GenerateSessionID generates a cryptographically secure session ID
func (s *SessionStore) GenerateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Save stores the full session record under the given ID.
func (s *SessionStore) Save(ctx context.Context, sessionID string, sess Session) error {
	key := sessionKey(sessionID)
	fields := map[string]interface{}{
		"username":      sess.Username,
		"authenticated": fmt.Sprintf("%t", sess.Authenticated),
		"query":         sess.Query,
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

// Get retrieves a session by ID, refreshing its TTL on access.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (Session, error) {
	key := sessionKey(sessionID)

	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if len(vals) == 0 {
		return Session{}, ErrSessionNotFound
	}

	s.client.Expire(ctx, key, s.ttl)

	return Session{
		Username:      vals["username"],
		Authenticated: vals["authenticated"] == "true",
		Query:         vals["query"],
	}, nil
}

// SetQuery updates only the shared search query of an existing session.
func (s *SessionStore) SetQuery(ctx context.Context, sessionID, query string) error {
	key := sessionKey(sessionID)
	if err := s.client.HSet(ctx, key, "query", query).Err(); err != nil {
		return fmt.Errorf("failed to set session query: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

package handlers

import (
	"log"
	"net/http"

	"github.com/medetbek/moviedb/internal/database"
	"github.com/medetbek/moviedb/internal/middleware"
)

// The catalog has a single fixed account; there is no user store behind
// the login form.
const (
	adminUsername = "admin"
	adminPassword = "admin"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	sessionStore   SessionStore
	authMiddleware *middleware.AuthMiddleware
	renderer       *Renderer
	logger         *log.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessionStore SessionStore, authMiddleware *middleware.AuthMiddleware, renderer *Renderer, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		sessionStore:   sessionStore,
		authMiddleware: authMiddleware,
		renderer:       renderer,
		logger:         logger,
	}
}

// LoginPage displays the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, "login.html", nil)
}

// Login checks the submitted credentials against the fixed pair. A
// wrong pair re-renders the page without any error message and leaves
// an existing session untouched; known gap, kept as-is.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username != adminUsername || password != adminPassword {
		h.renderer.RenderPage(w, "login.html", nil)
		return
	}

	sessionID, err := h.sessionStore.GenerateSessionID()
	if err != nil {
		h.logger.Printf("Failed to generate session ID: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	session := database.Session{Username: username, Authenticated: true}
	if err := h.sessionStore.Save(r.Context(), sessionID, session); err != nil {
		h.logger.Printf("Failed to save session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.authMiddleware.SetSessionCookie(w, sessionID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil {
		if err := h.sessionStore.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Printf("Failed to delete session: %v", err)
		}
	}

	h.authMiddleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

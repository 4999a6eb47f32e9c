package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medetbek/moviedb/internal/config"
	"github.com/medetbek/moviedb/internal/database"
	"github.com/medetbek/moviedb/internal/handlers"
	"github.com/medetbek/moviedb/internal/middleware"
	"github.com/medetbek/moviedb/internal/services"
	"github.com/medetbek/moviedb/internal/viewmodel"
)

const refreshInterval = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := log.New(os.Stdout, "[moviedb] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting MovieDB server in %s mode", cfg.Server.Env)

	// Initialize Redis connection
	redisClient, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize session store
	sessionStore := database.NewSessionStore(redisClient, 7*24*time.Hour)

	// Initialize services
	catalogService := services.NewCatalogService(services.CatalogConfig{
		BaseURL: cfg.API.BaseURL,
	})
	catalog := services.NewCachedCatalog(catalogService, redisClient, 10*time.Second, logger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionStore, "session", cfg.IsProduction())

	// Initialize renderer
	renderer, err := handlers.NewRenderer(catalog.ImageURL, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize renderer: %v", err)
	}

	// Initialize handlers
	formValidator := viewmodel.NewFormValidator()
	authHandler := handlers.NewAuthHandler(sessionStore, authMiddleware, renderer, logger)
	pageHandler := handlers.NewPageHandler(catalog, sessionStore, renderer, logger)
	formHandler := handlers.NewFormHandler(catalog, formValidator, renderer, logger)

	// Set up HTTP router
	mux := http.NewServeMux()

	// Auth routes (public)
	mux.Handle("GET /login", authMiddleware.RedirectAuthenticated(http.HandlerFunc(authHandler.LoginPage)))
	mux.Handle("POST /login", authMiddleware.RedirectAuthenticated(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("GET /logout", authHandler.Logout)

	// Page routes (protected)
	mux.Handle("GET /{$}", authMiddleware.RequireAuth(http.HandlerFunc(pageHandler.Home)))
	mux.Handle("GET /movies", authMiddleware.RequireAuth(http.HandlerFunc(pageHandler.MovieList)))
	mux.Handle("GET /movies/table", authMiddleware.RequireAuth(http.HandlerFunc(pageHandler.MovieTable)))
	mux.Handle("GET /movies/new", authMiddleware.RequireAuth(http.HandlerFunc(formHandler.NewMovie)))
	mux.Handle("POST /movies/new", authMiddleware.RequireAuth(http.HandlerFunc(formHandler.CreateMovie)))
	mux.Handle("GET /movies/{id}", authMiddleware.RequireAuth(http.HandlerFunc(pageHandler.MovieDetail)))
	mux.Handle("GET /movies/{id}/edit", authMiddleware.RequireAuth(http.HandlerFunc(formHandler.EditMovie)))
	mux.Handle("POST /movies/{id}/edit", authMiddleware.RequireAuth(http.HandlerFunc(formHandler.UpdateMovie)))
	mux.Handle("GET /movies/{id}/delete", authMiddleware.RequireAuth(http.HandlerFunc(formHandler.ConfirmDelete)))
	mux.Handle("POST /movies/{id}/delete", authMiddleware.RequireAuth(http.HandlerFunc(formHandler.DeleteMovie)))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := redisClient.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","redis":"down"}`)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","redis":"up"}`)
	})

	// Wrap with logging middleware
	handler := middleware.Logger(logger)(mux)

	// Refresh the movie cache in the background so pages serve fresh data
	// without waiting on the upstream API.
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-ticker.C:
				if _, err := catalog.Refresh(refreshCtx); err != nil {
					logger.Printf("Background refresh failed: %v", err)
				}
			}
		}
	}()

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")
	stopRefresh()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	redisClient.Close()

	logger.Println("Server exited")
}

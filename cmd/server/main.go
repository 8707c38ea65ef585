// Mechanics coursework site server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/mechanics-site/internal/api"
	"github.com/ashureev/mechanics-site/internal/auth"
	"github.com/ashureev/mechanics-site/internal/comments"
	"github.com/ashureev/mechanics-site/internal/config"
	"github.com/ashureev/mechanics-site/internal/content"
	"github.com/ashureev/mechanics-site/internal/feed"
	"github.com/ashureev/mechanics-site/internal/identity"
	"github.com/ashureev/mechanics-site/internal/middleware"
	"github.com/ashureev/mechanics-site/internal/quiz"
	"github.com/ashureev/mechanics-site/internal/search"
	"github.com/ashureev/mechanics-site/internal/store"
	"github.com/ashureev/mechanics-site/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "store", cfg.StoreDriver)

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		slog.Error("Failed to load site content", "error", err)
		os.Exit(1)
	}
	slog.Info("Site content loaded", "pages", len(site.Pages), "questions", len(site.Questions))

	kv, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	if err := kv.Ping(context.Background()); err != nil {
		slog.Error("Store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Store connected")

	// Initialize services.
	hub := feed.NewHub()
	authSvc := auth.NewService(kv, site.Credentials)
	board := comments.NewBoard(kv, comments.WithPublisher(hub))

	pages, err := web.NewSite(site.Pages, authSvc)
	if err != nil {
		slog.Error("Failed to render site pages", "error", err)
		os.Exit(1)
	}

	// Initialize handlers.
	siteHandler := api.NewSiteHandler(search.NewIndex(site.Pages), quiz.NewGrader(site.Questions), authSvc, board)
	feedHandler := feed.NewHandler(hub, cfg.OriginHosts())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.Origins()))

	r.Handle("/static/*", http.StripPrefix("/static/", web.StaticHandler()))

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		siteHandler.RegisterRoutes(r)
		r.Get("/ws/comments", feedHandler.ServeHTTP)
		r.Get("/", pages.ServeHTTP)
		r.Get("/{page}", pages.ServeHTTP)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket feeds stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		slog.Warn("Using in-memory store, state is lost on restart")
		return store.NewMemory(), nil
	case config.DriverBolt:
		s, err := store.NewBolt(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

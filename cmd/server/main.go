package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"parakeet/internal/auth"
	"parakeet/internal/config"
	"parakeet/internal/handler"
	"parakeet/internal/middleware"
	"parakeet/internal/pdf"
	"parakeet/internal/repository/jsonstore"
	"parakeet/internal/service"
	"parakeet/internal/storage"
	"parakeet/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := parseLogLevel(cfg.LogLevel)
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// Optional JWT verification; without a JWKS URL the API is open,
	// which is the normal single-user local setup.
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	}

	// Pick the store backend: Postgres when DATABASE_URL is set,
	// otherwise the flock-guarded JSON file.
	ctx := context.Background()
	var dataStore store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open Postgres store: %v", err)
		}
		defer pg.Close()
		dataStore = pg
		logger.Info("store opened", "backend", "postgres")
	} else {
		jf, err := store.NewJSONFile(cfg.DataFile)
		if err != nil {
			log.Fatalf("Failed to open JSON store: %v", err)
		}
		dataStore = jf
		logger.Info("store opened", "backend", "jsonfile", "path", cfg.DataFile)
	}

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Create repositories
	docRepo := jsonstore.NewDocumentRepository(dataStore, logger)
	linkRepo := jsonstore.NewLinkRepository(dataStore, logger)
	markupRepo := jsonstore.NewMarkupRepository(dataStore, logger)
	paraRepo := jsonstore.NewParaRepository(dataStore, logger)

	// Create services
	compositor := pdf.NewCompositor(logger)
	docService := service.NewDocumentService(docRepo, linkRepo, paraRepo, files, logger)
	markupService := service.NewMarkupService(markupRepo, docRepo, logger)
	pdfService := service.NewPDFService(compositor, markupRepo, docRepo, files, logger)
	paraService := service.NewParaService(paraRepo, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewParaHandler(paraService, logger),
		handler.NewDocumentHandler(docService, logger),
		handler.NewMarkupHandler(markupService, pdfService, logger),
	)

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier, logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM so in-flight uploads finish.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

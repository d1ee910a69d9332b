package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"catalog-service/internal/api"
	"catalog-service/internal/config"
	"catalog-service/internal/service"
	"catalog-service/internal/store"
	"catalog-service/internal/validation"
)

const serviceName = "catalog-service"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting service",
		slog.String("service", serviceName),
		slog.String("env", cfg.AppEnv))

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		logger.Error("failed to open database connection", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.PingContext(context.Background()); err != nil {
		logger.Error("failed to ping database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	dbStore := store.NewPostgresStore(db)
	products := service.NewProductService(dbStore, validation.NewProductValidator(), logger)
	handler := api.NewHTTPHandler(products, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(api.RecoverEnvelope(logger))
	router.Use(middleware.Timeout(60 * time.Second))
	registerHealthCheck(router, logger, db)
	handler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Info("HTTP server listening", slog.String("port", cfg.HttpServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, httpServer, dbStore)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func registerHealthCheck(router *chi.Mux, logger *slog.Logger, db *sql.DB) {
	router.Get("/api/v1/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		if err := db.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
			logger.Warn("health check DB ping failed", slog.Any("error", err))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"serviceName": serviceName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
		})
	})
}

func waitForShutdown(logger *slog.Logger, httpServer *http.Server, dbStore *store.PostgresStore) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal, starting graceful shutdown", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server graceful shutdown failed", slog.Any("error", err))
	}

	if err := dbStore.Close(); err != nil {
		logger.Warn("error closing database connection", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
}

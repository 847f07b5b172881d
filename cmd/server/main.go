// Package main runs the lens distributor back-office server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/optilens/backoffice/internal/app"
	"github.com/optilens/backoffice/internal/app/httpapi"
	"github.com/optilens/backoffice/internal/app/metrics"
	"github.com/optilens/backoffice/internal/app/storage/postgres"
	"github.com/optilens/backoffice/internal/config"
	"github.com/optilens/backoffice/internal/middleware"
	"github.com/optilens/backoffice/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", "", "listen address (overrides config)")
	configPath := flag.String("config", "config/server.yaml", "path to config file")
	databaseURL := flag.String("database-url", "", "postgres connection string (overrides config)")
	flag.Parse()

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		*addr = v
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*configPath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		*databaseURL = v
	}

	log := logger.NewDefault("server")

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.WithError(err).Error("load config")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *databaseURL != "" {
		cfg.Database.URL = *databaseURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores := app.Stores{}
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.WithError(err).Error("open database")
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Error("ping database")
			os.Exit(1)
		}
		pg := postgres.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.WithError(err).Error("ensure schema")
			os.Exit(1)
		}
		stores = app.Stores{Catalog: pg, Variants: pg, Orders: pg, Retail: pg}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	application, err := app.New(stores, log)
	if err != nil {
		log.WithError(err).Error("build application")
		os.Exit(1)
	}
	if err := application.Start(ctx); err != nil {
		log.WithError(err).Error("start application")
		os.Exit(1)
	}

	handler := httpapi.NewHandler(application)
	handler = metrics.InstrumentHandler(handler)
	handler = middleware.NewRequestLog(logger.NewDefault("http")).Handler(handler)
	handler = middleware.NewCORS(cfg.Server.CORSOrigins).Handler(handler)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server error")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application stop")
	}
}

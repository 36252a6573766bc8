package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/bilbometro/api/config"
	"github.com/bilbometro/api/handlers"
	"github.com/bilbometro/api/metro"
	"github.com/bilbometro/api/monitor"
	"github.com/bilbometro/api/notify"
	"github.com/bilbometro/api/planner"
	"github.com/bilbometro/api/repository"
)

var CLI struct {
	Config string `help:"Path to config file" default:"config.yaml" type:"path"`
}

func main() {
	kong.Parse(&CLI)

	// Load base .env first, then .env.local (which overrides for local
	// development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	// Setup structured logging with logfmt
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		logger.WithField("error", err).Fatal("failed to load config")
	}

	network := planner.DefaultNetwork()
	if err := network.Validate(); err != nil {
		logger.WithField("error", err).Fatal("invalid network topology")
	}

	client := metro.NewClient(cfg.APIBaseURL, cfg.UpstreamTimeout())
	routePlanner := planner.New(client, network, cfg, logger)

	// Visitor store: Postgres when DATABASE_URL is set, SQLite otherwise
	var visitorRepo handlers.VisitorRepository
	if cfg.DatabaseURL != "" {
		repo, err := repository.NewPostgresVisitorRepository(cfg.DatabaseURL)
		if err != nil {
			logger.WithField("error", err).Fatal("failed to initialize postgres visitor store")
		}
		defer repo.Close()
		visitorRepo = repo
		logger.Info("postgres visitor store ready")
	} else {
		db, err := repository.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			logger.WithField("error", err).Fatal("failed to initialize sqlite visitor store")
		}
		defer db.Close()
		visitorRepo = repository.NewSQLiteVisitorRepository(db.GetDB())
		logger.WithField("path", cfg.SQLitePath).Info("sqlite visitor store ready")
	}

	routeHandler := handlers.NewRouteHandler(routePlanner, logger)
	stationsHandler := handlers.NewStationsHandler(network)
	visitorHandler := handlers.NewVisitorHandler(visitorRepo, logger)
	healthHandler := handlers.NewHealthHandler(cfg, visitorRepo)

	// Setup router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(visitorHandler.Middleware)

	r.Get("/api/route/{origin}/{destination}", routeHandler.GetRoute)
	r.Get("/api/route/{origin}/{destination}/formatted", routeHandler.GetRouteFormatted)
	r.Post("/api/route", routeHandler.PostRoute)
	r.Get("/api/stations", stationsHandler.GetStations)
	r.Get("/api/visitors", visitorHandler.GetVisitors)
	r.Get("/api/health", healthHandler.GetHealth)

	// Static file serving (if configured)
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background service monitor, enabled only with Pushover credentials
	if cfg.MonitorEnabled() {
		notifier := notify.NewNotifier(cfg.PushoverToken, cfg.PushoverUser, logger)
		svcMonitor := monitor.New(client, notifier, logger,
			cfg.MonitorOrigin, cfg.MonitorDestination, cfg.AutoRefreshInterval())
		svcMonitor.Start(ctx)
		defer svcMonitor.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("api server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithField("error", err).Fatal("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.WithField("signal", sig).Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithField("error", err).Error("server shutdown error")
	} else {
		logger.Info("server shut down successfully")
	}
}

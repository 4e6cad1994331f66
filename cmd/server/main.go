package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/league-tracker/bootstrap"
	"github.com/Dosada05/league-tracker/config"
	"github.com/Dosada05/league-tracker/handlers"
	"github.com/Dosada05/league-tracker/realtime"
	api "github.com/Dosada05/league-tracker/routes"
	"github.com/Dosada05/league-tracker/services"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Any("storage_backends", cfg.StorageBackends),
		slog.String("storage_format", cfg.StorageFormat))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open league storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	wsHub := realtime.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		wsHub.Run(ctx)
		close(hubDone)
	}()
	logger.Info("WebSocket Hub started")

	leagueService := services.NewLeagueService(stores.Store, wsHub, logger)

	leagueHandler := handlers.NewLeagueHandler(leagueService)
	teamHandler := handlers.NewTeamHandler(leagueService)
	matchHandler := handlers.NewMatchHandler(leagueService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, leagueService, cfg.CORSAllowedOrigins)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{Logger: logger, AllowedOrigins: cfg.CORSAllowedOrigins},
		leagueHandler,
		teamHandler,
		matchHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		}

		if cfg.AutosaveOnShutdown {
			if err := leagueService.SaveAll(shutdownCtx); err != nil {
				logger.Error("failed to save open leagues", slog.Any("error", err))
				exitCode = 1
			} else {
				logger.Info("open leagues saved")
			}
		}
	}

	stop()
	<-hubDone
	logger.Info("application exited")
	if exitCode != 0 {
		stores.Close()
		os.Exit(exitCode)
	}
}

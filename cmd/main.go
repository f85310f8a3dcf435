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

	"github.com/go-chi/chi/v5"
	"github.com/ksu-sports/tournament-backend/config"
	"github.com/ksu-sports/tournament-backend/db"
	"github.com/ksu-sports/tournament-backend/handlers"
	"github.com/ksu-sports/tournament-backend/live"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/ksu-sports/tournament-backend/routes"
	"github.com/ksu-sports/tournament-backend/services"
	"github.com/ksu-sports/tournament-backend/storage"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Object storage is optional; without it logo endpoints report the
	// storage as unavailable but everything else works.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		r2, err := storage.NewR2Uploader(context.Background(),
			cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey,
			cfg.R2BucketName, cfg.R2PublicBaseURL)
		if err != nil {
			logger.Error("failed to initialize object storage", slog.Any("error", err))
			os.Exit(1)
		}
		uploader = r2
		logger.Info("object storage initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("object storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)
	txManager := repositories.NewSQLTxManager(dbConn)

	emailService := services.NewSMTPEmailService(cfg, logger)
	authService := services.NewAuthService(userRepo, emailService, logger)
	userService := services.NewUserService(userRepo)
	tournamentService := services.NewTournamentService(
		txManager, tournamentRepo, teamRepo, standingRepo, matchRepo, venueRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, standingRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, rosterRepo)
	venueService := services.NewVenueService(venueRepo)
	matchService := services.NewMatchService(
		matchRepo, standingRepo, venueRepo, teamRepo, emailService, logger)
	standingsService := services.NewStandingsService(
		txManager, matchRepo, standingRepo, tournamentRepo, hub, logger)
	statsService := services.NewStatsService(statsRepo, standingRepo, tournamentRepo)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, standingsService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	venueHandler := handlers.NewVenueHandler(venueService)
	matchHandler := handlers.NewMatchHandler(matchService, standingsService)
	statsHandler := handlers.NewStatsHandler(statsService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		cfg,
		authHandler,
		userHandler,
		tournamentHandler,
		teamHandler,
		playerHandler,
		venueHandler,
		matchHandler,
		statsHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

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

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}

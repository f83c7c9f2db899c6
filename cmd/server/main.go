package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockatelier/internal/config"
	"stockatelier/internal/filestore"
	"stockatelier/internal/infra"
	"stockatelier/internal/repository"
	"stockatelier/internal/router"
	"stockatelier/internal/session"
	"stockatelier/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" && cfg.SessionSecret == "dev-session-secret" {
		log.Fatal().Msg("SESSION_SECRET must be set in production")
	}

	db, err := infra.NewDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	files, err := filestore.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload directory")
	}
	sessions := session.NewStore(cfg.SessionSecret)

	// Background orphan-file sweeper — reconciles the upload tree with the DB.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.StartSweeper(ctx, worker.SweeperConfig{
		MachineRepo: repository.NewMachineRepository(db),
		Files:       files,
	})

	r := router.New(cfg, db, files, sessions)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("stockatelier listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carta/internal/config"
	"carta/internal/infra"
	"carta/internal/repository"
	"carta/internal/router"
	"carta/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: console in development, JSON in production
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Job consumers are wired here (composition root); the router only
	// enqueues through its own Dispatcher.
	smtpCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Nombre: "smtp"})
	pushCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{Nombre: "push"})
	mailer := infra.NewMailer(cfg, smtpCB)
	pushClient := infra.NewPushClient(cfg.PushGatewayURL, cfg.PushServerKey, pushCB)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set: order emails will land in the DLQ")
	}
	if !pushClient.Configurado() {
		log.Warn().Msg("PUSH_GATEWAY_URL not set: push notifications disabled")
	}

	pool := worker.NewPool(rdb)
	pool.Handle(worker.JobEmail, worker.NewEmailWorker(mailer))
	pool.Handle(worker.JobPush, worker.NewPushWorker(pushClient, repository.NewAdminTokenRepository(db)))
	pool.Start(ctx, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb, pushCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("local", cfg.NombreLocal).Msgf("carta backend listening on :%d", cfg.Port)
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
		log.Error().Err(err).Msg("forced shutdown")
	}
	cancel()
	pool.Wait()
	_ = rdb.Close()
	log.Info().Msg("server exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawlume-server/internal/adapters/auth/firebaseauth"
	"pawlume-server/internal/adapters/payments/stripe"
	"pawlume-server/internal/adapters/storage/mongodb"
	"pawlume-server/internal/config"
	"pawlume-server/internal/middleware"
	"pawlume-server/internal/platform/logger"
	"pawlume-server/internal/router"

	_ "pawlume-server/docs" // swagger
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.IsDev())

	opts := router.Options{
		Logger:      &log,
		RateLimiter: middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()),
		Currency:    cfg.Currency,
	}
	defer opts.RateLimiter.Stop()

	// Verifier de identidad (sin él, modo dev via X-Debug-User-Email).
	if cfg.IdentityBaseURL != "" && cfg.IdentityAPIKey != "" {
		client, err := firebaseauth.NewClient(firebaseauth.Config{
			BaseURL: cfg.IdentityBaseURL,
			APIKey:  cfg.IdentityAPIKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("identity client")
		}
		opts.AuthVerifier = firebaseauth.NewVerifier(client)
	} else if !cfg.IsDev() {
		log.Fatal().Msg("identity provider is required outside dev")
	} else {
		log.Warn().Msg("no identity provider configured, dev mode auth enabled")
	}

	// Proveedor de pagos (opcional).
	if cfg.StripeSecretKey != "" {
		client, err := stripe.NewClient(stripe.Config{SecretKey: cfg.StripeSecretKey})
		if err != nil {
			log.Fatal().Err(err).Msg("stripe client")
		}
		opts.Payments = client
	}

	// Store: Mongo si hay URI; si no, in-memory (solo dev).
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect")
		}
		opts.DB = db
		defer func() {
			_ = db.Client().Disconnect(context.Background())
		}()
		log.Info().Str("db", cfg.MongoDB).Msg("mongo connected")
	} else if !cfg.IsDev() {
		log.Fatal().Msg("MONGO_URI is required outside dev")
	} else {
		log.Warn().Msg("no MONGO_URI, using in-memory store")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}

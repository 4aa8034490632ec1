package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/auth"
	"github.com/quickbasket/quickbasket/internal/config"
	"github.com/quickbasket/quickbasket/internal/db"
	"github.com/quickbasket/quickbasket/internal/httpapi"
	"github.com/quickbasket/quickbasket/internal/order"
	"github.com/quickbasket/quickbasket/internal/product"
	"github.com/quickbasket/quickbasket/internal/user"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "quickbasket").Logger()

	log.Info().Msg("QuickBasket starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dbConn, err := db.New(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	if err := db.ApplyMigrations(dbConn.Pool, cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	var cache product.Cache
	if cfg.Redis.Enabled() {
		cache = product.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.TTL)
		if err := cache.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to redis")
	}

	userRepo := user.NewRepository(dbConn.Pool)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(dbConn.Pool)
	productSvc := product.NewService(productRepo, cache)

	orderRepo := order.NewRepository(dbConn.Pool)
	orderSvc := order.NewService(orderRepo, productSvc)

	tokens := auth.NewManager(cfg.JWT.Secret)

	router := httpapi.NewRouter(userSvc, productSvc, orderSvc, tokens)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

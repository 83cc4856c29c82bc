package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/greenpath/platform/internal/api"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
	"github.com/greenpath/platform/internal/core/service"
	"github.com/greenpath/platform/internal/core/session"
	"github.com/greenpath/platform/internal/infrastructure/config"
	mongodb "github.com/greenpath/platform/internal/infrastructure/db/mongo"
	"github.com/greenpath/platform/internal/infrastructure/db/postgres"
	redisdb "github.com/greenpath/platform/internal/infrastructure/db/redis"
	"github.com/greenpath/platform/internal/infrastructure/http/handlers"
	"github.com/greenpath/platform/internal/infrastructure/oauth"
	"github.com/greenpath/platform/internal/infrastructure/queue"
	"github.com/greenpath/platform/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the session dispatcher",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development(), Service: "greenpath", Version: version})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongoConfig(cfg.Mongo))
	if err != nil {
		return err
	}
	defer func() {
		if err := mongodb.Disconnect(mongoClient, cfg.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisConfig(cfg.Redis))
	if err != nil {
		return err
	}
	defer rdb.Close()

	identities := mongodb.NewIdentityRepository(db)
	levels := mongodb.NewLevelRepository(db)
	progress := mongodb.NewProgressRepository(db)
	city := mongodb.NewCityRepository(db)

	indexed := []interface {
		EnsureIndexes(context.Context) error
	}{identities, levels, progress, city}
	for _, r := range indexed {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	checks := []handlers.DependencyCheck{handlers.MongoCheck(db), handlers.RedisCheck(rdb)}

	var profiles ports.ProfileStore
	switch cfg.ProfileStore {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := postgres.NewProfileRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		profiles = repo
		checks = append(checks, handlers.PostgresCheck(pool))
	default:
		profiles = mongodb.NewProfileRepository(db)
	}

	// --- Identity and sessions ---
	sessionStore := redisdb.NewSessionStore(rdb)
	auth := service.NewAuthService(identities, sessionStore, sessionStore, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}, logger.Component("auth"))
	if cfg.Google.Enabled() {
		auth.RegisterConnector(domain.ProviderGoogle, oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		}))
	}

	registry := session.NewRegistry(profiles, sessionStore, auth, logger.Component("session"))
	dispatcher := queue.NewDispatcher(cfg.Workers, registry, logger.Component("dispatcher"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(ctx, auth.Subscribe())
	}()

	// --- HTTP ---
	levelService := service.NewLevelService(levels, progress, log)
	e := api.NewRouter(api.Dependencies{
		Log:          logger.Component("http"),
		Identity:     auth,
		Sessions:     registry,
		Profiles:     profiles,
		Levels:       levelService,
		City:         service.NewCityService(city, log),
		Dashboard:    service.NewDashboardService(levelService, progress, city, cfg.MaxFootprint, log),
		MaxFootprint: cfg.MaxFootprint,
		Checks:       checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("profile_store", cfg.ProfileStore).Msg("greenpath listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		stop()
		wg.Wait()
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	wg.Wait()
	return nil
}

func mongoConfig(c config.MongoConfig) mongodb.Config {
	return mongodb.Config{
		URI:         c.URI,
		Database:    c.Database,
		AppName:     c.AppName,
		MaxPoolSize: c.MaxPoolSize,
		MinPoolSize: c.MinPoolSize,
		Timeout:     c.Timeout,
	}
}

func redisConfig(c config.RedisConfig) redisdb.Config {
	return redisdb.Config{
		URL:        c.URL,
		Addr:       c.Addr,
		Password:   c.Password,
		DB:         c.DB,
		ClientName: c.ClientName,
		PoolSize:   c.PoolSize,
		Timeout:    c.Timeout,
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/api"
	"github.com/writerhub/marketplace/internal/core/ports"
	"github.com/writerhub/marketplace/internal/core/service"
	"github.com/writerhub/marketplace/internal/infrastructure/db/memory"
	"github.com/writerhub/marketplace/internal/infrastructure/db/mongo"
	"github.com/writerhub/marketplace/internal/infrastructure/db/sqlite"
	httpserver "github.com/writerhub/marketplace/internal/infrastructure/http"
	"github.com/writerhub/marketplace/internal/infrastructure/http/handlers"
	"github.com/writerhub/marketplace/internal/pkg/config"
	"github.com/writerhub/marketplace/pkg/logger"
)

// stores is the storage wiring picked by STORE_DRIVER.
type stores struct {
	users     ports.CredentialStore
	faqs      ports.FAQRepository
	settings  ports.SettingRepository
	readiness map[string]handlers.PingFunc
	close     func(context.Context) error
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Level: "info", Output: os.Stderr})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "writerhub-api"})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("failed to open store")
	}

	auth := service.NewAuthService(st.users, log.With().Str("component", "auth").Logger())
	content := service.NewContentService(st.faqs, st.settings, log.With().Str("component", "content").Logger())

	router := api.NewRouter(api.Deps{
		AuthService:    auth,
		ContentService: content,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		Readiness:      st.readiness,
		Logger:         log,
	})
	srv := httpserver.NewServer(cfg.Port, router, log)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(log, srv, st)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &stores{
			users:     mongo.NewUserStore(db),
			faqs:      mongo.NewFAQRepository(db),
			settings:  mongo.NewSettingRepository(db),
			readiness: map[string]handlers.PingFunc{"mongo": handlers.MongoPing(db)},
			close:     client.Disconnect,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLite.Path, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("opened sqlite database")
		return &stores{
			users:     sqlite.NewUserStore(db),
			faqs:      sqlite.NewFAQStore(db),
			settings:  sqlite.NewSettingStore(db),
			readiness: map[string]handlers.PingFunc{"sqlite": db.Ping},
			close:     func(context.Context) error { return db.Close() },
		}, nil
	}

	log.Warn().Msg("using in-memory store; data is lost on exit")
	return &stores{
		users:     memory.NewUserStore(),
		faqs:      memory.NewFAQStore(),
		settings:  memory.NewSettingStore(),
		readiness: map[string]handlers.PingFunc{},
		close:     func(context.Context) error { return nil },
	}, nil
}

func waitForShutdown(log zerolog.Logger, srv *httpserver.Server, st *stores) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := st.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close error")
	}

	log.Info().Msg("server exited cleanly")
}

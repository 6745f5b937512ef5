// Package app wires configuration, storage, analytics and the HTTP server
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/profilehub/membership-service/internal/api"
	"github.com/profilehub/membership-service/internal/api/metrics"
	"github.com/profilehub/membership-service/internal/core/ports"
	"github.com/profilehub/membership-service/internal/core/service"
	"github.com/profilehub/membership-service/internal/infrastructure/analytics"
	"github.com/profilehub/membership-service/internal/infrastructure/config"
	"github.com/profilehub/membership-service/internal/infrastructure/db/memory"
	"github.com/profilehub/membership-service/internal/infrastructure/db/mongo"
	"github.com/profilehub/membership-service/internal/infrastructure/db/redis"
	"github.com/profilehub/membership-service/internal/infrastructure/http/handlers"
	"github.com/profilehub/membership-service/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

// App owns every long-lived resource of the service.
type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	echo       *echo.Echo
	dispatcher *queue.Dispatcher
	repo       ports.UserRepository
	mongo      *mongodriver.Client
	redis      *goredis.Client
}

// New connects to the configured backends and builds the HTTP server. On
// error every resource opened so far is released.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.closeClients(context.Background())
		}
	}()

	readiness := map[string]handlers.Pinger{}

	if cfg.Redis.Enabled() {
		a.redis, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		readiness["redis"] = handlers.RedisPinger(a.redis)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	a.repo, err = a.buildRepository(ctx, readiness)
	if err != nil {
		return nil, err
	}

	sink, err := a.buildSink()
	if err != nil {
		return nil, err
	}
	a.dispatcher = queue.NewDispatcher(cfg.Analytics.Workers, cfg.Analytics.Buffer, sink, log)

	tracker := analytics.NewTracker(a.dispatcher)
	tracker.SetGlobalProperties(ports.Properties{
		"service":     "membership-service",
		"environment": cfg.Env,
	})

	profiles := service.NewProfileService(a.repo, tracker, log)
	membership := service.NewMembershipService(a.repo, tracker, log)

	a.echo = api.NewRouter(api.Dependencies{
		Profiles:   metrics.NewInstrumentedProfileService(profiles),
		Membership: metrics.NewInstrumentedMembershipService(membership),
		Forms:      service.NewFormValidationService(),
		Readiness:  readiness,
		Log:        log,
	})
	return a, nil
}

// Repository exposes the configured user repository.
func (a *App) Repository() ports.UserRepository { return a.repo }

func (a *App) buildRepository(ctx context.Context, readiness map[string]handlers.Pinger) (ports.UserRepository, error) {
	var repo ports.UserRepository

	switch a.cfg.Storage.Driver {
	case config.StorageMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.mongo = client
		readiness["mongodb"] = handlers.MongoPinger(client)

		users := mongo.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure user indexes: %w", err)
		}
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("using mongo user repository")
		repo = users

	default:
		var opts []memory.Option
		if a.cfg.Storage.Latency > 0 {
			opts = append(opts, memory.WithLatency(a.cfg.Storage.Latency))
		}
		users := memory.NewUserRepository(opts...)
		if a.cfg.Storage.SeedDemo {
			if err := memory.SeedDemoUsers(ctx, users, time.Now()); err != nil {
				return nil, err
			}
			a.log.Info().Msg("seeded demo users")
		}
		repo = users
	}

	if a.redis != nil {
		repo = redis.NewCachedUserRepository(repo, a.redis, a.cfg.Redis.ProfileTTL, a.log)
	}
	return repo, nil
}

func (a *App) buildSink() (ports.EventSink, error) {
	switch a.cfg.Analytics.Sink {
	case config.SinkNop:
		return analytics.MultiSink{analytics.NopSink{}, analytics.MetricsSink{}}, nil
	case config.SinkRedis:
		if a.redis == nil {
			return nil, errors.New("redis analytics sink requires a redis connection")
		}
		return analytics.MultiSink{
			redis.NewEventStream(a.redis, a.cfg.Analytics.Stream, 0),
			analytics.MetricsSink{},
		}, nil
	default:
		return analytics.MultiSink{analytics.NewLogSink(a.log), analytics.MetricsSink{}}, nil
	}
}

// Run serves HTTP until ctx is cancelled, then shuts the server down, drains
// pending analytics events and closes the backend clients.
func (a *App) Run(ctx context.Context) error {
	a.dispatcher.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("http server listening")
		if err := a.echo.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.log.Info().Msg("shutting down")
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown failed")
	}
	a.dispatcher.Close()
	a.closeClients(shutdownCtx)

	return serveErr
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler { return a.echo }

func (a *App) closeClients(ctx context.Context) {
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close failed")
		}
	}
}

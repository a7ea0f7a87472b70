// Package server assembles the account server: PostgreSQL repositories,
// the refresh-token store, the image blob store and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/dmitrijs2005/ordo/internal/server/blobs"
	"github.com/dmitrijs2005/ordo/internal/server/config"
	gs "github.com/dmitrijs2005/ordo/internal/server/grpc"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordo/internal/server/services"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// Test seams.
var (
	sqlOpen       = sql.Open
	runMigrations = func(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB) error {
		return m.RunMigrations(ctx, db)
	}
	newBlobStore = func(ctx context.Context, c blobs.S3Config) (blobs.Store, error) {
		return blobs.NewS3Store(ctx, c)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *gs.GRPCServer
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (_ *App, err error) {
	app := &App{config: cfg, logger: logger.With("module", "app")}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	app.db, err = sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := app.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := runMigrations(ctx, m, app.db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var tokens refreshtokens.Repository
	if cfg.RedisAddr != "" {
		app.redis, err = refreshtokens.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, 0)
		if err != nil {
			return nil, err
		}
		tokens = refreshtokens.NewRedisRepository(app.redis)
		app.logger.Info(ctx, "refresh tokens in redis", "addr", cfg.RedisAddr)
	}

	var store blobs.Store
	if cfg.S3Bucket != "" {
		store, err = newBlobStore(ctx, blobs.S3Config{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
	} else {
		app.logger.Warn(ctx, "no S3 bucket configured, images are kept in memory")
		store = blobs.NewMemoryStore()
	}

	us := services.NewUserService(app.db, m, tokens, store, cfg, logger)
	ss := services.NewSpaceService(app.db, m, store, logger)

	app.server = gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, ss, cfg.SecretKey, gs.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		ServerOptions:  []grpc.ServerOption{grpc.StatsHandler(otelgrpc.NewServerHandler())},
	})

	return app, nil
}

// Run serves until ctx is done.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	return app.server.Run(ctx)
}

func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}

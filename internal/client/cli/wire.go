package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ordo/internal/client/capture"
	"github.com/dmitrijs2005/ordo/internal/client/client"
	"github.com/dmitrijs2005/ordo/internal/client/config"
	"github.com/dmitrijs2005/ordo/internal/client/generation"
	"github.com/dmitrijs2005/ordo/internal/client/library"
	"github.com/dmitrijs2005/ordo/internal/client/machine"
	"github.com/dmitrijs2005/ordo/internal/client/persistence"
	"github.com/dmitrijs2005/ordo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// NewAppFromConfig opens the local database, picks the backend named in c
// and assembles the REPL. The returned close function releases the backend
// and the database.
func NewAppFromConfig(ctx context.Context, c *config.Config, log logging.Logger) (*App, func(), error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	meta := metadata.NewSQLiteRepository(db)

	var (
		backend persistence.Backend
		pinger  Pinger
	)
	switch c.Backend {
	case config.BackendRemote:
		rpc, err := client.NewGRPCClient(c.ServerEndpointAddr, client.Options{
			Timeout:     c.RequestTimeout,
			Tokens:      client.NewMetadataTokenStore(meta),
			DialOptions: []grpc.DialOption{grpc.WithStatsHandler(otelgrpc.NewClientHandler())},
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		backend = persistence.NewRemoteBackend(rpc, log)
		pinger = rpc
	default:
		backend = persistence.NewLocalBackend(db, log)
	}

	gen := generation.NewClient(generation.Config{
		Endpoint: c.GenerationEndpoint,
		APIKey:   c.APIKey,
		Model:    c.ImageModel,
		Timeout:  c.GenerationTimeout,
		Logger:   log,
	})

	m := machine.New(machine.Deps{
		Backend:     backend,
		Cache:       persistence.NewSessionCache(meta, c.Backend),
		Library:     library.NewManager(backend, log),
		Generator:   gen,
		Camera:      capture.NewFileCamera(c.CameraSource),
		Logger:      log,
		SplashDelay: c.SplashDelay,
	})

	closeFn := func() {
		err := backend.Close()
		if c.Backend == config.BackendRemote {
			// The local backend owns db; the remote one only the connection.
			err = errors.Join(err, db.Close())
		}
		if err != nil {
			log.Warn(context.Background(), "close failed", "error", err)
		}
	}

	return NewApp(m, pinger, os.Stdin, os.Stdout, log), closeFn, nil
}

package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/ordo/internal/client/config"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNewAppFromConfig_Local(t *testing.T) {
	var c config.Config
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "ordo.db")
	c.SplashDelay = 0

	app, closeFn, err := NewAppFromConfig(context.Background(), &c, logging.Discard())
	require.NoError(t, err)
	defer closeFn()

	require.Nil(t, app.pinger)
	require.Equal(t, ModeLocal, app.Mode())
	require.Equal(t, models.ScreenSplash, app.m.State().Screen)
	require.NoError(t, app.m.Start(context.Background()))
	require.Equal(t, models.ScreenAuth, app.m.State().Screen)
}

func TestNewAppFromConfig_Remote(t *testing.T) {
	var c config.Config
	c.LoadDefaults()
	c.Backend = config.BackendRemote
	c.DatabasePath = filepath.Join(t.TempDir(), "ordo.db")

	// grpc.NewClient does not dial until the first call.
	app, closeFn, err := NewAppFromConfig(context.Background(), &c, logging.Discard())
	require.NoError(t, err)
	defer closeFn()

	require.NotNil(t, app.pinger)
	require.Equal(t, ModeOnline, app.Mode())
}

func TestNewAppFromConfig_BadDatabase(t *testing.T) {
	var c config.Config
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "missing", "dir", "ordo.db")

	_, _, err := NewAppFromConfig(context.Background(), &c, logging.Discard())
	require.Error(t, err)
}

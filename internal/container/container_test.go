package container

import (
	"context"
	"testing"

	"elysoir/storefront/internal/config"
	"elysoir/storefront/internal/state"

	"github.com/stretchr/testify/require"
)

func TestNewWithoutStores(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	snap := app.Sync(context.Background())
	require.Len(t, snap.Products, 3)
	require.False(t, app.Service.Loading())

	report, err := app.StateManager.GetLastSync(context.Background())
	require.NoError(t, err)
	require.Equal(t, state.SourceFallback, report.ProductSource)
	require.Equal(t, "localhost:8080", app.Server.Addr)
}

func TestNewProxyRequiresCredentials(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Proxy.Enabled = true

	_, err = New(context.Background(), cfg)
	require.Error(t, err)
}

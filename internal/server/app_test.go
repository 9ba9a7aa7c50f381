package server

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/server/config"
	"github.com/dmitrijs2005/severity/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T) string {
	t.Helper()

	X := [][common.FeatureCount]float64{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	m, err := classifier.Fit(X, []int{1, 4}, 1.0, 0.0)
	require.NoError(t, err)

	features := make([]classifier.FeatureEncoding, 0, common.FeatureCount)
	for _, n := range classifier.FeatureNames() {
		features = append(features, classifier.BuildEncoding(n, []string{"0", "1"}))
	}

	path := filepath.Join(t.TempDir(), "model.json")
	tr := &classifier.Trained{Model: m, Features: features, CreatedAt: time.Now()}
	require.NoError(t, tr.SaveFile(path))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.MetricsAddr = "127.0.0.1:0"
	c.DatabaseDSN = repomanager.MemoryDSN
	c.ModelPath = writeModel(t)
	c.LogFile = filepath.Join(t.TempDir(), "server.log")
	return c
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("app exited too early: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
}

func TestApp_RunFailsOnBadAddress(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddrHTTP = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
}

func TestNewApp_Errors(t *testing.T) {
	t.Run("missing model", func(t *testing.T) {
		c := testConfig(t)
		c.ModelPath = filepath.Join(t.TempDir(), "absent.json")
		_, err := NewApp(context.Background(), c)
		assert.ErrorIs(t, err, common.ErrClassifierUnavailable)
	})

	t.Run("bad time zone", func(t *testing.T) {
		c := testConfig(t)
		c.TimeZone = "Mars/Olympus_Mons"
		_, err := NewApp(context.Background(), c)
		assert.Error(t, err)
	})

	t.Run("bad dsn", func(t *testing.T) {
		c := testConfig(t)
		c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"
		_, err := NewApp(context.Background(), c)
		assert.Error(t, err)
	})
}

func TestNewApp_TimeZones(t *testing.T) {
	for _, tz := range []string{"", "Asia/Jakarta", "UTC"} {
		t.Run("zone "+tz, func(t *testing.T) {
			c := testConfig(t)
			c.TimeZone = tz
			app, err := NewApp(context.Background(), c)
			require.NoError(t, err)
			require.NoError(t, app.repomanager.Close())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/wardrobe/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "127.0.0.1:0",
			ShutdownTimeout: time.Second,
			BodyLimit:       1024 * 1024,
		},
		JWT:     config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		Storage: config.StorageConfig{Backend: "local", ImageDir: t.TempDir(), MaxSize: 1024},
	}
}

func TestRunReturnsSetupErrors(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	cfg := testConfig(t)
	cfg.Storage.ImageDir = filepath.Join(blocker, "images")

	err := run(context.Background(), cfg, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preparing image directory")
}

func TestRunReturnsListenErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Server.Port = ln.Addr().String()
	cfg.Database.SeedDemo = true

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), cfg, slog.Default()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server error")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after the listener failed")
	}
}

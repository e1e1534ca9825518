// File: server/config_test.go
// License: Apache-2.0

package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deltaws.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen_addr: \":9100\"\nmax_read_retries: 5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.ListenAddr)
	assert.Equal(t, 5, cfg.MaxReadRetries)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultConfig().ReadBufferSize, cfg.ReadBufferSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

// File: server/config.go
// Package server: configuration for the deltaws server.
// License: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server-side configuration. The listen address is the
// only externally meaningful knob; the rest tune session behavior.
type Config struct {
	ListenAddr     string        // TCP bind address, e.g. ":8001"
	ReadBufferSize int           // handshake request read buffer
	MaxReadRetries int           // retry budget for timeout reads
	RetryBackoff   time.Duration // base backoff between retries
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     ":8001",
		ReadBufferSize: 4096,
		MaxReadRetries: 3,
		RetryBackoff:   10 * time.Millisecond,
	}
}

// LoadConfig reads a config file (YAML, TOML, or JSON as understood by
// viper) and overlays it on the defaults. A missing file is not an
// error; unknown keys are ignored.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("read_buffer_size", cfg.ReadBufferSize)
	v.SetDefault("max_read_retries", cfg.MaxReadRetries)
	v.SetDefault("retry_backoff", cfg.RetryBackoff)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.ListenAddr = v.GetString("listen_addr")
	cfg.ReadBufferSize = v.GetInt("read_buffer_size")
	cfg.MaxReadRetries = v.GetInt("max_read_retries")
	cfg.RetryBackoff = v.GetDuration("retry_backoff")
	return cfg, nil
}

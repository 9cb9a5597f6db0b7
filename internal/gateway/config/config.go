// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package config defines the gateway server configuration.
package config

import (
	"fmt"
	"time"

	"github.com/daz23456/flowplane/internal/logging"
)

// Source selects where workflow and task definitions are loaded from.
const (
	SourceDir     = "dir"
	SourceCluster = "cluster"
)

// Config is the top-level gateway configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Store   StoreConfig    `koanf:"store"`
	Engine  EngineConfig   `koanf:"engine"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"readTimeout"`
	WriteTimeout time.Duration `koanf:"writeTimeout"`
	IdleTimeout  time.Duration `koanf:"idleTimeout"`
}

// CatalogConfig controls definition loading.
type CatalogConfig struct {
	// Source is either "dir" or "cluster".
	Source string `koanf:"source"`
	// Dir is the definitions directory when source is "dir".
	Dir string `koanf:"dir"`
	// Namespace scopes cluster loading and defaults file-loaded objects.
	Namespace string `koanf:"namespace"`
}

// StoreConfig holds execution history settings.
type StoreConfig struct {
	// Path is the SQLite database file. ":memory:" keeps history in process.
	Path string `koanf:"path"`
}

// EngineConfig tunes the orchestrator.
type EngineConfig struct {
	MaxSubWorkflowDepth int `koanf:"maxSubWorkflowDepth"`
}

// Default returns the gateway defaults. File, environment, and flag
// values layer on top.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:    SourceDir,
			Dir:       "./definitions",
			Namespace: "default",
		},
		Store: StoreConfig{
			Path: "flowplane.db",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Catalog.Source {
	case SourceDir:
		if c.Catalog.Dir == "" {
			return fmt.Errorf("catalog.dir is required when catalog.source is %q", SourceDir)
		}
	case SourceCluster:
		// Namespace may be empty to watch all namespaces.
	default:
		return fmt.Errorf("unknown catalog source: %q", c.Catalog.Source)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	return nil
}

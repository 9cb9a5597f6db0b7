// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type testServerConfig struct {
	Port        int           `koanf:"port"`
	ReadTimeout time.Duration `koanf:"read_timeout"`
}

type testCatalogConfig struct {
	Dir string `koanf:"dir"`
}

type testConfig struct {
	Server  testServerConfig  `koanf:"server"`
	Catalog testCatalogConfig `koanf:"catalog"`
}

func testDefaults() testConfig {
	return testConfig{
		Server: testServerConfig{
			Port:        8080,
			ReadTimeout: 15 * time.Second,
		},
		Catalog: testCatalogConfig{
			Dir: "/etc/flowplane/catalog",
		},
	}
}

func TestLoader_StructDefaults(t *testing.T) {
	loader := NewLoader("FP_TEST")
	if err := loader.LoadWithDefaults(testDefaults(), ""); err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	var cfg testConfig
	if err := loader.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.Dir != "/etc/flowplane/catalog" {
		t.Errorf("expected default catalog dir, got %s", cfg.Catalog.Dir)
	}
}

func TestLoader_ConfigFileOverridesDefaults(t *testing.T) {
	configPath := filepath.Join("testdata", "test_config.yaml")

	loader := NewLoader("FP_TEST")
	if err := loader.LoadWithDefaults(testDefaults(), configPath); err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	var cfg testConfig
	if err := loader.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from config file, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read_timeout 30s from config file, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Catalog.Dir != "./catalog" {
		t.Errorf("expected catalog dir from config file, got %s", cfg.Catalog.Dir)
	}
}

func TestLoader_EnvVarsOverrideConfigFile(t *testing.T) {
	configPath := filepath.Join("testdata", "test_config.yaml")

	os.Setenv("FP_TEST__SERVER__PORT", "7070")
	os.Setenv("FP_TEST__CATALOG__DIR", "/tmp/catalog")
	defer func() {
		os.Unsetenv("FP_TEST__SERVER__PORT")
		os.Unsetenv("FP_TEST__CATALOG__DIR")
	}()

	loader := NewLoader("FP_TEST")
	if err := loader.LoadWithDefaults(testDefaults(), configPath); err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	var cfg testConfig
	if err := loader.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070 from env var, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.Dir != "/tmp/catalog" {
		t.Errorf("expected catalog dir from env var, got %s", cfg.Catalog.Dir)
	}
	// Config file value preserved when no env override
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read_timeout 30s from config file, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoader_MissingConfigFileFails(t *testing.T) {
	loader := NewLoader("FP_TEST")
	err := loader.LoadWithDefaults(testDefaults(), "nonexistent.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoader_FlagsOverrideEnvVars(t *testing.T) {
	os.Setenv("FP_TEST__SERVER__PORT", "7070")
	defer os.Unsetenv("FP_TEST__SERVER__PORT")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "server port")
	if err := flags.Parse([]string{"--port=5050"}); err != nil {
		t.Fatalf("flags.Parse failed: %v", err)
	}

	loader := NewLoader("FP_TEST")
	if err := loader.LoadWithDefaults(testDefaults(), ""); err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if err := loader.LoadFlags(flags, map[string]string{
		"port": "server.port",
	}); err != nil {
		t.Fatalf("LoadFlags failed: %v", err)
	}

	var cfg testConfig
	if err := loader.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Server.Port != 5050 {
		t.Errorf("expected port 5050 from flag, got %d", cfg.Server.Port)
	}
}

// validatingConfig implements Validator
type validatingConfig struct {
	Server testServerConfig `koanf:"server"`
}

func (c *validatingConfig) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}
	return nil
}

func TestLoader_DumpYAML(t *testing.T) {
	loader := NewLoader("FP_TEST")
	if err := loader.LoadWithDefaults(testDefaults(), ""); err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	var buf strings.Builder
	if err := loader.DumpYAML(&buf); err != nil {
		t.Fatalf("DumpYAML failed: %v", err)
	}
	if !strings.Contains(buf.String(), "port: 8080") {
		t.Errorf("dump missing server port:\n%s", buf.String())
	}
}

func TestLoader_UnmarshalAndValidate_Fails(t *testing.T) {
	loader := NewLoader("FP_TEST")
	if err := loader.Set("server.port", 0); err != nil {
		t.Fatalf("loader.Set failed: %v", err)
	}

	var cfg validatingConfig
	if err := loader.UnmarshalAndValidate("", &cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

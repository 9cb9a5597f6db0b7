// Copyright 2026 The FlowPlane Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads component configuration by layering struct
// defaults, an optional YAML file, environment variables, and explicit
// CLI flag overrides, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	// keyDelimiter separates nested keys, as in "server.port".
	keyDelimiter = "."
	// envDelimiter separates nesting levels in environment variable
	// names, so FP_API__SERVER__PORT maps to server.port.
	envDelimiter = "__"
)

// Validator is implemented by config structs that check themselves
// after unmarshaling.
type Validator interface {
	Validate() error
}

// Loader accumulates configuration from the supported sources into a
// single keyed tree.
type Loader struct {
	k      *koanf.Koanf
	prefix string
}

// NewLoader returns a loader whose environment lookups are scoped to
// envPrefix, given without a trailing delimiter ("FP_API").
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		k:      koanf.New(keyDelimiter),
		prefix: envPrefix + envDelimiter,
	}
}

// LoadWithDefaults seeds the tree from the defaults struct, then layers
// the YAML file at configPath (when given) and finally any matching
// environment variables on top. A configPath that names a missing file
// is an error rather than a silent fallback to defaults.
func (l *Loader) LoadWithDefaults(defaults any, configPath string) error {
	if defaults != nil {
		if err := l.k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return fmt.Errorf("config file %s: %w", configPath, err)
		}
		if err := l.k.Load(file.Provider(configPath), koanfyaml.Parser()); err != nil {
			return fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}
	if err := l.k.Load(env.Provider(l.prefix, keyDelimiter, l.envKey), nil); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

func (l *Loader) envKey(name string) string {
	key := strings.TrimPrefix(name, l.prefix)
	return strings.ToLower(strings.ReplaceAll(key, envDelimiter, keyDelimiter))
}

// LoadFlags overrides tree values from flags the user actually set.
// mappings translates flag names to config keys; unmapped flags are
// ignored. Call after LoadWithDefaults so flags win over every other
// source.
func (l *Loader) LoadFlags(flags *pflag.FlagSet, mappings map[string]string) error {
	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := mappings[f.Name]
		if !ok {
			return
		}
		if err := l.k.Set(key, f.Value.String()); err != nil {
			errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Set writes a single value into the tree.
func (l *Loader) Set(key string, value any) error {
	return l.k.Set(key, value)
}

// Unmarshal decodes the subtree at path (empty for the root) into out.
func (l *Loader) Unmarshal(path string, out any) error {
	return l.k.Unmarshal(path, out)
}

// UnmarshalAndValidate decodes the subtree at path into out and, when
// out implements Validator, runs its Validate method.
func (l *Loader) UnmarshalAndValidate(path string, out any) error {
	if err := l.k.Unmarshal(path, out); err != nil {
		return err
	}
	if v, ok := out.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// DumpYAML renders the effective configuration tree as YAML.
func (l *Loader) DumpYAML(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(l.k.Raw())
}

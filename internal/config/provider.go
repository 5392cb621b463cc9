// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidLoadOptions is returned when LoadOptions hold whitespace-only paths.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the user config directory lookup when set.
		ConfigDirPath string
		// ProjectRoot is searched for depscript.cue and .env.
		ProjectRoot string
	}

	// Loaded is a configuration together with the file it came from.
	Loaded struct {
		Config *Config
		// Path is the config file used, or "" when only defaults and the
		// environment applied.
		Path string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
	}

	fileProvider struct{}
)

// Validate rejects whitespace-only paths; empty paths mean "not set".
func (o LoadOptions) Validate() error {
	var bad []string
	for name, v := range map[string]string{
		"config file":  o.ConfigFilePath,
		"config dir":   o.ConfigDirPath,
		"project root": o.ProjectRoot,
	} {
		if v != "" && strings.TrimSpace(v) == "" {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return errors.Join(ErrInvalidLoadOptions, errors.New("whitespace-only "+strings.Join(bad, ", ")))
	}
	return nil
}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path}, nil
}

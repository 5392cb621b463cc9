// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/depscript/depscript/internal/issue"
	"github.com/depscript/depscript/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "depscript"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectConfigName is the config file looked up in the project root.
	ProjectConfigName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "DEPSCRIPT"
	// DotEnvName is the optional environment file in the project root.
	DotEnvName = ".env"
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ConfigDir returns the depscript user configuration directory using
// platform-specific conventions.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath(configDirPath string) (string, error) {
	dir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// ResolvePath returns the config file that Load would read, or "" when none
// exists.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFilePath)
		}
		return opts.ConfigFilePath, nil
	}
	if opts.ProjectRoot != "" {
		p := filepath.Join(opts.ProjectRoot, ProjectConfigName)
		if fileExists(p) {
			return p, nil
		}
	}
	p, err := UserConfigPath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := ResolvePath(opts)
	if err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'depscript config init' to create a configuration file").
			Wrap(err).
			BuildError()
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'depscript config dump' to see every supported key").
				Wrap(err).
				BuildError()
		}
	}

	if opts.ProjectRoot != "" {
		if err := applyDotEnv(v, filepath.Join(opts.ProjectRoot, DotEnvName)); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables and the .env file").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("manifest_dir", d.ManifestDir)
	v.SetDefault("target.system", d.Target.System)
	v.SetDefault("target.platform", d.Target.Platform)
	v.SetDefault("target.architecture", d.Target.Architecture)
	v.SetDefault("target.configuration", d.Target.Configuration)
	v.SetDefault("copy.dirty", d.Copy.Dirty)
	v.SetDefault("copy.jobs", d.Copy.Jobs)
	v.SetDefault("deps.kind", d.Deps.Kind)
	v.SetDefault("deps.base_url", d.Deps.BaseURL)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
	v.SetDefault("log.level", string(d.Log.Level))
}

// EnvName returns the environment variable that overrides a config key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// applyDotEnv sets keys from a .env file unless the process environment
// already defines them. A missing file is not an error.
func applyDotEnv(v *viper.Viper, path string) error {
	if !fileExists(path) {
		return nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read environment file").
			WithResource(path).
			WithSuggestion("Use KEY=value lines; quote values containing spaces").
			Wrap(err).
			BuildError()
	}
	for _, key := range v.AllKeys() {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if val, ok := vars[name]; ok {
			v.Set(key, val)
		}
	}
	return nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, path); err != nil {
		return err
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// decodeCUE validates data against #Config and decodes it into a map.
// Fields are optional, so concreteness is not required.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}
	return configMap, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path unless a file is
// already there. It reports whether the file was created.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders a configuration as CUE. Empty target fields are omitted
// so they keep following the host.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// depscript configuration\n\n")
	fmt.Fprintf(&sb, "manifest_dir: %q\n", cfg.ManifestDir)

	var target []string
	for _, f := range []struct{ key, val string }{
		{"system", cfg.Target.System},
		{"platform", cfg.Target.Platform},
		{"architecture", cfg.Target.Architecture},
		{"configuration", cfg.Target.Configuration},
	} {
		if f.val != "" {
			target = append(target, fmt.Sprintf("\t%s: %q\n", f.key, f.val))
		}
	}
	if len(target) > 0 {
		sb.WriteString("\ntarget: {\n")
		sb.WriteString(strings.Join(target, ""))
		sb.WriteString("}\n")
	}

	sb.WriteString("\ncopy: {\n")
	fmt.Fprintf(&sb, "\tdirty: %v\n", cfg.Copy.Dirty)
	fmt.Fprintf(&sb, "\tjobs: %d\n", cfg.Copy.Jobs)
	sb.WriteString("}\n")

	sb.WriteString("\ndeps: {\n")
	fmt.Fprintf(&sb, "\tkind: %q\n", cfg.Deps.Kind)
	fmt.Fprintf(&sb, "\tbase_url: %q\n", cfg.Deps.BaseURL)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/depscript/depscript/internal/fetch"
	"github.com/depscript/depscript/internal/resolve"
	"github.com/depscript/depscript/pkg/depscript"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultBaseURL is the dependency repository URL prefix; the kind is appended.
	DefaultBaseURL = "https://git.randomcode.dev/mobslicer152/FalseKing-deps-"

	// MaxJobs bounds copy.jobs.
	MaxJobs = 256
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidJobs is returned when copy.jobs is out of range.
	ErrInvalidJobs = errors.New("invalid job count")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// LogLevel is the minimum level of log records written to stderr.
	LogLevel string

	// InvalidValueError reports a field whose value is not accepted. It wraps
	// the sentinel for the field's type.
	InvalidValueError struct {
		Field string
		Value string
		Valid string
		Err   error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// TargetConfig holds default target fields. Empty fields are filled from
	// the host at the command line boundary.
	TargetConfig struct {
		System        string `json:"system,omitempty" mapstructure:"system"`
		Platform      string `json:"platform,omitempty" mapstructure:"platform"`
		Architecture  string `json:"architecture,omitempty" mapstructure:"architecture"`
		Configuration string `json:"configuration,omitempty" mapstructure:"configuration"`
	}

	// CopyConfig controls the copy executor.
	CopyConfig struct {
		// Dirty skips entries whose destination already exists.
		Dirty bool `json:"dirty" mapstructure:"dirty"`
		// Jobs bounds concurrent copies.
		Jobs int `json:"jobs" mapstructure:"jobs"`
	}

	// DepsConfig selects the dependency repository used by pull.
	DepsConfig struct {
		Kind    string `json:"kind" mapstructure:"kind"`
		BaseURL string `json:"base_url" mapstructure:"base_url"`
	}

	// UIConfig contains UI-related configuration.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// LogConfig contains logging configuration.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// Config is the complete depscript configuration.
	Config struct {
		// ManifestDir is the manifest directory, relative to the project root.
		ManifestDir string       `json:"manifest_dir" mapstructure:"manifest_dir"`
		Target      TargetConfig `json:"target" mapstructure:"target"`
		Copy        CopyConfig   `json:"copy" mapstructure:"copy"`
		Deps        DepsConfig   `json:"deps" mapstructure:"deps"`
		UI          UIConfig     `json:"ui" mapstructure:"ui"`
		Log         LogConfig    `json:"log" mapstructure:"log"`
	}
)

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q (valid: %s)", e.Field, e.Value, e.Valid)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "color scheme", Value: string(cs), Valid: "auto, dark, light", Err: ErrInvalidColorScheme,
		}}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is recognized.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "log level", Value: string(l), Valid: "debug, info, warn, error", Err: ErrInvalidLogLevel,
		}}
	}
}

// Level converts the LogLevel to a slog level. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Target converts the configured fields to a (possibly incomplete) target.
func (c TargetConfig) Target() depscript.Target {
	return depscript.Target{
		System:        c.System,
		Platform:      c.Platform,
		Architecture:  c.Architecture,
		Configuration: c.Configuration,
	}
}

// IsValid returns whether every field of the configuration is acceptable.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.ManifestDir) == "" {
		errs = append(errs, errors.New("manifest_dir must not be empty"))
	}
	if c.Copy.Jobs < 1 || c.Copy.Jobs > MaxJobs {
		errs = append(errs, &InvalidValueError{
			Field: "copy.jobs", Value: fmt.Sprint(c.Copy.Jobs), Valid: fmt.Sprintf("1-%d", MaxJobs), Err: ErrInvalidJobs,
		})
	}
	if err := (fetch.Options{Root: ".", Kind: c.Deps.Kind, BaseURL: c.Deps.BaseURL}).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("deps: %w", err))
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ManifestDir: resolve.DefaultManifestDir,
		Copy: CopyConfig{
			Dirty: false,
			Jobs:  min(runtime.GOMAXPROCS(0), MaxJobs),
		},
		Deps: DepsConfig{
			Kind:    fetch.DefaultKind,
			BaseURL: DefaultBaseURL,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}

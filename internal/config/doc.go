// SPDX-License-Identifier: MPL-2.0

// Package config handles depscript configuration using Viper with CUE as the
// file format.
//
// A configuration file is looked up in this order, and the first one found is
// used: the --config flag, <root>/depscript.cue, then config.cue in the user
// configuration directory (XDG on Linux, ~/Library/Application Support on
// macOS, %APPDATA% on Windows). Values are validated against the embedded
// schema (config_schema.cue).
//
// Every key can be overridden from the environment with the DEPSCRIPT_ prefix
// and dots replaced by underscores, e.g. DEPSCRIPT_TARGET_SYSTEM or
// DEPSCRIPT_COPY_JOBS. A .env file in the project root supplies variables
// that are not already set in the process environment.
package config

// Package config loads, normalizes, and validates autosub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AUTOSUB_MODEL and HF_TOKEN. Command-line flags are applied on top of the
// loaded value by the CLI, so the precedence is defaults, file, environment,
// flags.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

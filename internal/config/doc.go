// Package config loads, normalizes, and validates corpus configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and pipeline need: dataset directories, split ratios, duration bin
// edges, the session gap threshold, and logging options.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config

// Package logging constructs slog loggers for the CLI and pipeline. The
// console handler prints a compact human-readable line per record with
// indented attributes; the json format delegates to slog's JSON handler for
// machine consumption.
package logging

// Package logging assembles the structured slog loggers used by rpminspect.
//
// It owns the console and JSON handlers, parses level names from the
// configuration, and exposes attribute helpers so every component tags its
// lines with the same keys (component, event_type, inspection, run_id).
// Diagnostics always go to stderr; stdout is reserved for inspection output.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging

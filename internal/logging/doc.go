// Package logging constructs slog loggers for showrunner. Console and JSON
// formats share the same attribute conventions (ts/level/msg, UTC RFC 3339
// timestamps); components tag themselves with WithComponent so log lines stay
// attributable across subsystems.
package logging

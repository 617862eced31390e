// Package logging builds the slog loggers used throughout cinepress.
//
// Two handlers are provided: a compact console handler for interactive runs
// and a JSON handler for machine consumption. Helpers mirror the slog attr
// constructors so call sites stay terse, and NewNop gives tests a silent
// logger.
package logging

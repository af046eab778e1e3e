// Package logging provides structured logging for the PDF container.
//
// It wraps Go's log/slog with a JSON handler. A viewer session writes to
// {dir}/debug.log; with no directory configured output goes to stderr, which
// the TUI keeps away from the alternate screen by defaulting to a file.
//
// Child loggers carry persistent attributes:
//
//	logger := logging.NopLogger().WithComponent("projector")
//	logger.WithNode("zoomButton").Warn("projection failed", "error", err)
//
// All types in this package are safe for concurrent use.
package logging

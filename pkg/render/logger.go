package render

import (
	"log/slog"

	"github.com/taigrr/facet/internal/logging"
)

// SetLogger configures the logger used by the renderer and the model
// loaders. By default nothing is logged. Pass nil to restore that.
//
// Frame statistics are logged at [slog.LevelDebug] when Options.Debug is
// set.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the active logger.
func Logger() *slog.Logger {
	return logging.Logger()
}

package tuplevec

import (
	"log/slog"

	"github.com/histdb/tuplevec/alloc"
)

// SetLogger configures the logger for tuplevec and the allocators. By default
// nothing is logged. Records are emitted at debug level on reallocation and
// fixed capacity overflow. Pass nil to restore the silent default.
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) { alloc.SetLogger(l) }

// Logger returns the current logger.
func Logger() *slog.Logger { return alloc.Logger() }

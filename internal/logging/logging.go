// Package logging builds the slog logger used across wutag. Records are
// rendered by charmbracelet/log so diagnostics on stderr match the colored
// command output.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// DebugEnv enables debug logging when set to a non-empty value.
const DebugEnv = "WUTAG_DEBUG"

// New returns a logger writing to w. Debug records are emitted only when
// debug is true or DebugEnv is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := log.WarnLevel
	if debug || os.Getenv(DebugEnv) != "" {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "wutag",
		ReportTimestamp: debug,
	})
	return slog.New(handler)
}

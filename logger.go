package photoengine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a structured logger writing to w at the named level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Prefix:          "photoengine",
	})
}

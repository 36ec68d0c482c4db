package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/misfitdev/spotr-mcp/pkg/config"
)

// New returns a logger writing to w at the named level. Unknown levels fall
// back to info. Servers must log to stderr: stdout carries the protocol.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          config.ServerName,
		ReportTimestamp: true,
	})
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

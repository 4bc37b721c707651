// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// Setup sets the global log level and formatter. An empty or unknown level
// falls back to info. JSON output is meant for log shippers; the text
// formatter only uses colors when stderr is a terminal.
func Setup(level string, json bool) error {
	return setup(os.Stderr, level, json)
}

func setup(out io.Writer, level string, json bool) error {
	log.SetOutput(out)

	lvl := log.InfoLevel
	var parseErr error
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			parseErr = err
		} else {
			lvl = parsed
		}
	}
	log.SetLevel(lvl)

	if json {
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
			ForceColors:   isTerminal(out),
			DisableColors: !isTerminal(out),
		})
	}

	return parseErr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Package logging configures the process-wide zerolog logger: a console
// writer for the operator plus a structured run log file.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initialises the global logger. The run log file at logPath is
// truncated at process start so each run's log stands alone; console output
// goes to stderr through a human-readable writer. The returned closer
// flushes and closes the log file.
func Setup(logPath string, noColor bool) (func() error, error) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}

	writers := []io.Writer{console}
	var file *os.File
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", logPath, err)
		}
		file = f
		writers = append(writers, f)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()

	return func() error {
		if file == nil {
			return nil
		}
		return file.Close()
	}, nil
}

// SetVerbose lowers the global level to debug; the default is info.
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

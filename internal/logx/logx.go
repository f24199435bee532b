package logx

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger configured for console output on stderr.
// Debug output is enabled when verbose is set.
func NewLogger(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		// Extract just the filename, not the full path
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		// Pad to 20 characters for alignment
		return fmt.Sprintf("%-20s", fmt.Sprintf("%s:%d", short, line))
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Caller().Logger()
}

// Printf adapts logger to the printf-style hooks taken by SetLogger.
// Messages are logged at debug level.
func Printf(logger zerolog.Logger) func(format string, args ...any) {
	return func(format string, args ...any) {
		logger.Debug().Msgf(format, args...)
	}
}

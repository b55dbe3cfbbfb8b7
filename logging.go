package sender

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a debug-level logger writing timestamped lines to w.
func NewLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().Timestamp().
		Logger()
}

// OpenLogFile opens path for appending and returns a logger writing to it.
// The returned closer releases the file.
func OpenLogFile(path string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f), f, nil
}

// ConsoleLogger is used by the command line tool.
func ConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func logMeasurement(log *zerolog.Logger, m Measurement) {
	log.Debug().
		Str("host", m.Host).
		Str("key", m.Key).
		Interface("value", m.Value).
		Int64("clock", m.Clock).
		Msg("send data")
}

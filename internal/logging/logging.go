package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds a logger writing to w. Terminals get the human console format,
// everything else gets one JSON object per line.
func New(level string, w io.Writer) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		console := zerolog.NewConsoleWriter()
		console.Out = f
		console.TimeFormat = time.DateTime
		out = console
	}

	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.TrimSpace(strings.ToLower(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// OpenFile opens an append-only log file, used while the terminal UI owns
// the screen.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

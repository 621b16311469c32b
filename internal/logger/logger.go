package logger

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init installs a text logger on stdout as the slog default.
func Init(debug bool) {
	InitWithWriter(os.Stdout, debug)
}

func InitWithWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
}

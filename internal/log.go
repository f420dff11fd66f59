package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName   = "slottool.log"
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 14
)

// LogParams contains the parameters for logging.
// These will vary depending on the front-end.
// # Server and ticker mode
// - records go to the log file and to stderr
// # Board mode
// - records go to the log file only, the terminal belongs to the board
// .
type LogParams struct {
	ConsoleOut io.Writer
	Dir        string
	Level      slog.Level
}

// ParseLevel maps a level name onto a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, ErrValidation)
	}
}

// NewLogger builds a JSON logger writing to a rotated file in params.Dir and, if set, to
// params.ConsoleOut. The returned closer releases the log file.
func NewLogger(params LogParams) (*slog.Logger, io.Closer, error) {
	if params.Dir != "" {
		if err := os.MkdirAll(params.Dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("newLogger: %w", err)
		}
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(params.Dir, logFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	}

	var out io.Writer = file
	if params.ConsoleOut != nil {
		out = io.MultiWriter(file, params.ConsoleOut)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: params.Level})

	return slog.New(handler), file, nil
}

// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", "discard", or a file path
	Level  string // "debug", "info", "warn", "error"
}

// Init initializes the global zerolog logger with the given configuration.
// Console outputs are colored; file outputs are JSON lines.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)

	writer, console, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.CallerMarshalFunc = shortCaller

	logger := newLogger(writer, console, level)
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return nil
}

// openOutput resolves the output name to a writer and reports whether it is a console.
func openOutput(output string) (io.Writer, bool, error) {
	switch strings.ToLower(output) {
	case "stdout", "":
		return os.Stdout, true, nil
	case "stderr":
		return os.Stderr, true, nil
	case "discard":
		return io.Discard, false, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, false, errors.Wrapf(err, "failed to open log file %s", output)
		}
		return f, false, nil
	}
}

func newLogger(writer io.Writer, console bool, level zerolog.Level) zerolog.Logger {
	if !console {
		ctx := zerolog.New(writer).With().Timestamp()
		if level == zerolog.DebugLevel {
			ctx = ctx.Caller()
		}
		return ctx.Logger()
	}

	cw := zerolog.ConsoleWriter{
		Out:        writer,
		TimeFormat: time.TimeOnly,
	}
	if level != zerolog.DebugLevel {
		return zerolog.New(cw).With().Timestamp().Logger()
	}

	// Caller only for DEBUG level
	cw.PartsOrder = []string{"time", "level", "message", "caller"}
	cw.FormatCaller = func(i interface{}) string {
		s, _ := i.(string)
		return "(" + s + ")"
	}
	return zerolog.New(cw).With().Timestamp().Caller().Logger()
}

// shortCaller keeps the last directory and the file name.
func shortCaller(pc uintptr, file string, line int) string {
	parts := strings.Split(file, string(filepath.Separator))
	if len(parts) > 1 {
		return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

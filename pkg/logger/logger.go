package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = build(consoleWriter(), zerolog.InfoLevel)
}

// Setup configures the global logger for a server mode. "release" writes JSON
// lines; any other mode writes colored console output. The mode doubles as a
// level name when it parses as one.
func Setup(mode, service string) {
	var out io.Writer = consoleWriter()
	if mode == "release" {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(mode)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
		if mode == "debug" {
			level = zerolog.DebugLevel
		}
	}

	Log = build(out, level).With().Str("service", service).Logger()
	zerolog.SetGlobalLevel(level)
	log.Logger = Log
}

// SetLevel overrides the level chosen by Setup. Empty keeps the current level.
func SetLevel(levelStr string) {
	if levelStr == "" {
		return
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func build(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

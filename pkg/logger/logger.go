// pkg/logger/logger.go
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

	Log = newLogger(consoleWriter(), zerolog.InfoLevel)
	log.Logger = Log
}

// Setup configures the level and output format. Debug mode keeps the colored
// console writer, every other mode writes JSON lines to stdout.
func Setup(levelStr, mode string) {
	var out io.Writer = os.Stdout
	if mode == "debug" {
		out = consoleWriter()
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}

	Log = newLogger(out, level)
	log.Logger = Log
	zerolog.SetGlobalLevel(level)

	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
	}
}

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

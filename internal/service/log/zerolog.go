package log

import (
	"io"

	"github.com/rs/zerolog"
)

type zlogger struct {
	logger zerolog.Logger
}

// NewZerolog returns a Logger that writes JSON lines to w using zerolog.
func NewZerolog(w io.Writer, debug bool) Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zlogger{logger: l}
}

// NewZerologConsole returns a Logger that writes human friendly lines to w.
func NewZerologConsole(w io.Writer, debug bool) Logger {
	return NewZerolog(zerolog.ConsoleWriter{Out: w, NoColor: true}, debug)
}

func (z *zlogger) Infof(format string, args ...interface{}) {
	z.logger.Info().Msgf(format, args...)
}

func (z *zlogger) Warningf(format string, args ...interface{}) {
	z.logger.Warn().Msgf(format, args...)
}

func (z *zlogger) Errorf(format string, args ...interface{}) {
	z.logger.Error().Msgf(format, args...)
}

func (z *zlogger) Debugf(format string, args ...interface{}) {
	z.logger.Debug().Msgf(format, args...)
}

func (z *zlogger) WithValues(values Kv) Logger {
	return &zlogger{logger: z.logger.With().Fields(map[string]interface{}(values)).Logger()}
}

package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// loggerWrapper adapts zerolog to the asyncnet.Logger interface.
type loggerWrapper struct {
	l zerolog.Logger
}

func (w *loggerWrapper) Print(v ...any) {
	w.l.Info().Msg(fmt.Sprint(v...))
}

func (w *loggerWrapper) Printf(format string, v ...any) {
	w.l.Info().Msgf(format, v...)
}

func (w *loggerWrapper) Infof(format string, v ...any) {
	w.l.Info().Msgf(format, v...)
}

func (w *loggerWrapper) Warnf(format string, v ...any) {
	w.l.Warn().Msgf(format, v...)
}

func (w *loggerWrapper) Errorf(format string, v ...any) {
	w.l.Error().Msgf(format, v...)
}

// newLogger builds a console logger writing to out at the named level.
func newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

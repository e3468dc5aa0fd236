// Package logger initialises the global zerolog logger of the CLI.
package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Log implements the logger config.
type Log struct {
	Level   string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Console bool   `mapstructure:"console"` // human readable output instead of JSON
	Caller  bool   `mapstructure:"caller"`
}

// Init sets the global zerolog logger. Output goes to stderr so that
// commands can write their results to stdout.
func Init(cfg Log) error {
	return InitWriter(cfg, os.Stderr)
}

// InitWriter is Init with an explicit writer.
func InitWriter(cfg Log, w io.Writer) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = zerolog.ParseLevel(cfg.Level); err != nil {
			return errors.Wrapf(err, "loglevel %s is not supported", cfg.Level)
		}
	}

	// use zerolog stack marshal func if trace level is set
	if level == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: zerolog.TimeFieldFormat}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	if level == zerolog.TraceLevel {
		ctx = ctx.Stack()
	}
	log.Logger = ctx.Logger()
	return nil
}

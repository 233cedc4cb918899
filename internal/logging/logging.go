package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const ServiceName = "storefront-go"

type Options struct {
	Level       string
	Format      string // "json" or "console"
	Environment string
}

// New builds the root logger. Unknown levels fall back to info.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stdout, opts)
}

func NewWithWriter(w io.Writer, opts Options) zerolog.Logger {
	if strings.EqualFold(opts.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp().Str("service", ServiceName)
	if opts.Environment != "" {
		ctx = ctx.Str("env", opts.Environment)
	}
	return ctx.Logger()
}

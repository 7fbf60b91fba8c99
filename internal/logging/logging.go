// Package logging builds the zerolog logger used by the command and the
// pipeline.
//
// Example usage:
//
//	logger, closeLog, err := logging.New(logging.Config{Level: "debug"}, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//	logger.Info().Int("clusters", 3).Msg("run complete")
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Formats accepted in Config.Format.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Outputs accepted in Config.Output besides a file path.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

// Config describes how to build a logger.
type Config struct {
	Level  string // trace, debug, info, warn, error
	Format string // auto, console, json
	Output string // stderr, stdout or a file path
}

// Validate checks the level and format names.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", FormatAuto, FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}

// ParseLevel converts a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "":
		return zerolog.InfoLevel, nil
	case "trace", "debug", "info", "warn", "error":
		return zerolog.ParseLevel(strings.ToLower(level))
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a logger. stderr is the writer used for OutputStderr so
// callers and tests can capture it. The returned close function releases a
// log file when one was opened.
func New(cfg Config, stderr io.Writer) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }
	if err := cfg.Validate(); err != nil {
		return zerolog.Nop(), noop, err
	}
	level, _ := ParseLevel(cfg.Level)

	var (
		out      io.Writer
		closeLog = noop
	)
	switch cfg.Output {
	case "", OutputStderr:
		out = stderr
	case OutputStdout:
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = f.Close
	}

	if useConsole(cfg.Format, out) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "" || !isTerminal(out),
		}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), closeLog, nil
}

func useConsole(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	default:
		return isTerminal(out)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

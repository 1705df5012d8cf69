package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Logger is the global logger instance
	Logger zerolog.Logger

	// output is where log lines go. Stdout belongs to the user-facing status lines.
	output io.Writer = os.Stderr
)

func init() {
	// Default logger until Init is called from the CLI
	Logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = Logger
}

// Format selects how log lines are rendered
type Format string

const (
	FormatAuto   Format = "auto"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// ParseLevel maps a level name to a zerolog level. Unknown names fall back to info.
func ParseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// Init initializes the global logger with the specified level and format
func Init(level string, format Format) {
	lvl, _ := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)

	var w io.Writer = output
	if usePretty(format) {
		w = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	Logger = zerolog.New(w).
		With().
		Timestamp().
		Logger()

	if lvl == zerolog.DebugLevel {
		Logger = Logger.With().Caller().Logger()
	}

	log.Logger = Logger
}

func usePretty(format Format) bool {
	switch format {
	case FormatPretty:
		return true
	case FormatJSON:
		return false
	}
	f, ok := output.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	output = w
	Logger = Logger.Output(w)
	log.Logger = Logger
}

// Get returns the global logger instance
func Get() *zerolog.Logger {
	return &Logger
}

// WithComponent returns a logger with a component field set
func WithComponent(component string) *zerolog.Logger {
	l := Logger.With().Str("component", component).Logger()
	return &l
}

// Fatal logs a fatal message and exits
func Fatal(err error, msg string) {
	Logger.Fatal().Err(err).Msg(msg)
}

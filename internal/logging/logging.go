// logging package wraps zerolog behind the small leveled interface the rest of
// the service depends on. Components receive a *Logger by injection and never
// touch the global zerolog state.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level controls logger verbosity. Higher levels include everything below.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps the configuration-facing level names onto Level values.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q", s)
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

type Config struct {
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Logger emits structured records. The zero value is not usable; construct
// with NewLogger or NewNopLogger.
type Logger struct {
	zl    zerolog.Logger
	level Level
}

func NewLogger(c Config) *Logger {
	out := c.Output
	if out == nil {
		out = os.Stderr
	}
	zl := zerolog.New(out).With().Timestamp().Logger().Level(zerologLevel(c.Level))
	return &Logger{zl: zl, level: c.Level}
}

// NewNopLogger returns a logger that discards all records.
func NewNopLogger() *Logger {
	return &Logger{zl: zerolog.Nop(), level: LevelError}
}

// WithFields returns a logger that attaches fields to every record it emits.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	zl := l.zl.With().Fields(fields).Logger()
	return &Logger{zl: zl, level: l.level}
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

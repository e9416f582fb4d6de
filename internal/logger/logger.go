// Package logger configures the zap logger shared by latticeview's
// packages. Console output goes to stderr so the file paths printed on
// stdout stay machine-readable.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// rootName prefixes every component logger.
const rootName = "latticeview"

// Logger option errors.
var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// Log is the process-wide logger, nil until Init.
var Log *zap.Logger

// Options configures a logger.
type Options struct {
	Level  string // debug, info, warn or error; empty means info
	Format string // console or json; empty means console

	// Console receives human-facing output; nil disables it.
	Console io.Writer

	// File enables a rotated log file.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultOptions logs info and above to stderr.
func DefaultOptions() Options {
	return Options{
		Level:      "info",
		Format:     "console",
		Console:    os.Stderr,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// ParseLevel accepts the level names used in config files.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// CheckFormat reports whether format names a supported encoding.
func CheckFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func newEncoder(format string, color bool) zapcore.Encoder {
	if strings.EqualFold(format, "json") {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.ConsoleSeparator = " "
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// New builds a logger. With neither Console nor File set it returns a
// no-op logger.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if err := CheckFormat(opts.Format); err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		color := opts.Console == os.Stderr || opts.Console == os.Stdout
		cores = append(cores, zapcore.NewCore(newEncoder(opts.Format, color), zapcore.AddSync(opts.Console), lvl))
	}
	if opts.File != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(newEncoder(opts.Format, false), zapcore.AddSync(w), lvl))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(rootName), nil
}

// Init builds the process-wide logger.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// L returns the process-wide logger, or a no-op logger before Init.
func L() *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log
}

// Named returns a component logger such as "latticeview.viewer".
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes buffered entries. Errors from syncing a terminal are
// ignored.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs through the process-wide logger.
func Debug(msg string, fields ...zap.Field) {
	L().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

// Info logs through the process-wide logger.
func Info(msg string, fields ...zap.Field) {
	L().WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

// Warn logs through the process-wide logger.
func Warn(msg string, fields ...zap.Field) {
	L().WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

// Error logs through the process-wide logger.
func Error(msg string, fields ...zap.Field) {
	L().WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

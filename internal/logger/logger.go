// Package logger builds the zap logger of paramtest-gen.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// WarnLevel logs warnings and errors
	WarnLevel
	// ErrorLevel logs only errors
	ErrorLevel
)

// LevelFromString converts a string to a Level
func LevelFromString(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zap.DebugLevel
	case WarnLevel:
		return zap.WarnLevel
	case ErrorLevel:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Config holds logger configuration
type Config struct {
	Level  Level
	Format string // "console" or "json"
	Caller bool   // Include caller information
	Color  bool   // Colour levels in console output
}

// ConfigFromEnv creates a logger configuration from environment variables
func ConfigFromEnv() *Config {
	cfg := &Config{
		Level:  InfoLevel,
		Format: "console",
		Color:  term.IsTerminal(int(os.Stderr.Fd())),
	}

	if levelStr := os.Getenv("PARAMTEST_LOG_LEVEL"); levelStr != "" {
		cfg.Level = LevelFromString(levelStr)
	}

	if format := os.Getenv("PARAMTEST_LOG_FORMAT"); format != "" {
		cfg.Format = strings.ToLower(format)
	}

	cfg.Caller = os.Getenv("PARAMTEST_LOG_CALLER") == "true"

	return cfg
}

// IsDevelopment returns true if the logger is configured for development mode
func (c *Config) IsDevelopment() bool {
	return c.Format != "json"
}

// New creates a logger writing to w.
func New(cfg *Config, w io.Writer) (*zap.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logger config is nil")
	}

	var encCfg zapcore.EncoderConfig

	var enc zapcore.Encoder

	if cfg.IsDevelopment() {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

		if cfg.Color {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(cfg.Level.zapLevel()))

	var opts []zap.Option
	if cfg.Caller {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(core, opts...), nil
}

// NewFromEnv creates a logger writing to stderr, configured from the
// environment.
func NewFromEnv() (*zap.Logger, error) {
	return New(ConfigFromEnv(), os.Stderr)
}

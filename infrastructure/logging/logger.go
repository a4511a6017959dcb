// Package logging builds the zap logger: console output (JSON outside
// development) plus an optional rotating JSON file.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"devdash-backend/infrastructure/config"
)

// Logger bundles the zap logger with the level it was built with, so the
// level can be changed while running.
type Logger struct {
	*zap.Logger
	Level zap.AtomicLevel
}

// New builds a logger from cfg writing console output to os.Stdout.
func New(cfg *config.Config) *Logger {
	return NewWithWriter(cfg, zapcore.Lock(os.Stdout))
}

// NewWithWriter is New with an explicit console sink.
func NewWithWriter(cfg *config.Config, console zapcore.WriteSyncer) *Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder(cfg), console, level)}
	if cfg.Logging.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), file, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("environment", string(cfg.Environment)))
	return &Logger{Logger: logger, Level: level}
}

// SetLevel changes the level in place. Unknown levels are ignored.
func (l *Logger) SetLevel(raw string) bool {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return false
	}
	l.Level.SetLevel(lvl)
	return true
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return ec
}

func consoleEncoder(cfg *config.Config) zapcore.Encoder {
	ec := encoderConfig()
	if cfg.IsDevelopment() {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File enables JSON logging to a rotated file instead of stderr.
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" yaml:"compress"`
}

func (l LogConfig) zapLevel() (zapcore.Level, error) {
	if l.Level == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(l.Level)
}

// NewLogger builds a zap logger. Console output goes to stderr; when File
// is set, JSON output goes to a lumberjack-rotated file.
func (l LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := l.zapLevel()
	if err != nil {
		return nil, err
	}

	if l.File == "" {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level)
		return zap.New(core), nil
	}

	sink := &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
		Compress:   l.Compress,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(sink),
		level,
	)
	return zap.New(core, zap.AddCaller()), nil
}

package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile describes where and how a rotating log file should be kept. It is
// optional: a collaborator that wants stderr-only logging just calls
// NewLogger with a zero LogFile.
type LogFile struct {
	// Path is the log file's location. Logging to a file is skipped
	// entirely when Path is empty.
	Path string

	// MaxSizeMB is the size in megabytes a log file reaches before it is
	// rotated. Zero means lumberjack's own default (100).
	MaxSizeMB int

	// MaxBackups is how many rotated files are kept. Zero means unlimited.
	MaxBackups int

	// MaxAgeDays is how long a rotated file is kept, in days. Zero means
	// files are never removed on account of age.
	MaxAgeDays int
}

// NewLogger builds the *zap.Logger a Context should be constructed with: a
// console-encoded stderr core, plus a JSON-encoded rotating-file core when
// f.Path is set. Rotation is lumberjack.Logger, the same pairing the pack's
// GitHubber reference code uses zap with.
func NewLogger(f LogFile, debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level),
	}

	if f.Path != "" {
		rotator := &lumberjack.Logger{
			Filename:   f.Path,
			MaxSize:    f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAge:     f.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...))
}

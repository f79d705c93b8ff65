// Copyright (c) 2025 AgriData, Inc. All rights reserved.

package log

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a logger using the Zap structured logger.
// If stdout is true, a console logger with wall-clock timestamps is used,
// matching the tool's interactive batch-job output. Otherwise log lines go
// to a JSON file under logDir.
func NewLogger(logDir, logName string, debug, stdout bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	var core zapcore.Core
	if stdout {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg),
			zapcore.AddSync(os.Stdout), level)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.EpochTimeEncoder
		cfg.LevelKey = "lv"
		cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(l.CapitalString()[:2])
		}
		if debug {
			cfg.EncodeCaller = zapcore.ShortCallerEncoder
			cfg.CallerKey = "call"
		}

		if logDir == "" {
			logDir = "/tmp"
		}
		if logName == "" {
			logName = filepath.Base(os.Args[0])
		}

		logFile := filepath.Join(logDir, logName+".log")
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}

		core = zapcore.NewCore(zapcore.NewJSONEncoder(cfg),
			zapcore.AddSync(file), level)
	}

	if debug {
		return zap.New(core, zap.AddCaller()), nil
	}
	return zap.New(core), nil
}

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Init builds the process logger. Debug enables the development encoder and
// debug-level output; otherwise only info and above are emitted.
func Init(debug bool) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return
	}
	logger = l.Sugar()
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = logger.Sync()
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...any) {
	logger.Debugf(format, v...)
}

// Infof logs a formatted info message.
func Infof(format string, v ...any) {
	logger.Infof(format, v...)
}

// Warnf logs a formatted warning.
func Warnf(format string, v ...any) {
	logger.Warnf(format, v...)
}

// Errorf logs a formatted error.
func Errorf(format string, v ...any) {
	logger.Errorf(format, v...)
}

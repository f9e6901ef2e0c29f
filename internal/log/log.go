// Package log wraps a process-wide zap logger.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init initializes the package-level logger
func Init(debug bool) error {
	var zapLogger *zap.Logger
	var err error

	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}

	sugar = zapLogger.Sugar()
	return nil
}

func s() *zap.SugaredLogger {
	if sugar == nil {
		return zap.NewNop().Sugar()
	}
	return sugar
}

// Sync flushes any buffered log entries
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

func Debugw(msg string, keysAndValues ...interface{}) {
	s().Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	s().Info(args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	s().Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	s().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	s().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	s().Errorw(msg, keysAndValues...)
}

func Fatalf(template string, args ...interface{}) {
	s().Fatalf(template, args...)
	os.Exit(1)
}

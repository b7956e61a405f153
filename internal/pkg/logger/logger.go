package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.SugaredLogger

// Init initializes the global logger. Production mode writes JSON,
// development mode writes colored console output.
func Init(appMode string) error {
	var config zap.Config

	if appMode == "prod" {
		config = zap.NewProductionConfig()
		config.Encoding = "json"
	} else {
		config = zap.NewDevelopmentConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	globalLogger = logger.Sugar()
	return nil
}

// Get returns the global SugaredLogger
func Get() *zap.SugaredLogger {
	if globalLogger == nil {
		globalLogger = zap.NewNop().Sugar()
	}
	return globalLogger
}

// Sync flushes any buffered logs
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// With returns a child logger carrying the given key/value pairs
func With(fields ...interface{}) *zap.SugaredLogger {
	return Get().With(fields...)
}

// Info logs an info message with optional key/value pairs
func Info(message string, fields ...interface{}) {
	Get().Infow(message, fields...)
}

// Debug logs a debug message with optional key/value pairs
func Debug(message string, fields ...interface{}) {
	Get().Debugw(message, fields...)
}

// Warn logs a warning message with optional key/value pairs
func Warn(message string, fields ...interface{}) {
	Get().Warnw(message, fields...)
}

// Error logs an error message with optional key/value pairs
func Error(message string, fields ...interface{}) {
	Get().Errorw(message, fields...)
}

// Fatal logs a fatal message, flushes and exits the process
func Fatal(message string, fields ...interface{}) {
	Get().Errorw(message, fields...)
	_ = Sync()
	os.Exit(1)
}

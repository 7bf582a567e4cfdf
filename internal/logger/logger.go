// Package logger provides the shared leveled logger for the service.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Initialize configures the logger output, format, and level. The level
// is read from the LOG_LEVEL environment variable and defaults to info.
func Initialize() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	configureLogLevel()
}

// SetOutput redirects log output, mainly so tests can capture entries.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func configureLogLevel() {
	log.SetLevel(logrus.InfoLevel)

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		return
	}

	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'", levelStr)
		return
	}

	log.SetLevel(level)
}

// Debug logs a message at debug level
func Debug(args ...interface{}) {
	log.Debug(args...)
}

// Info logs a message at info level
func Info(args ...interface{}) {
	log.Info(args...)
}

// Warn logs a message at warn level
func Warn(args ...interface{}) {
	log.Warn(args...)
}

// Error logs a message at error level
func Error(args ...interface{}) {
	log.Error(args...)
}

// Fatal logs a message at fatal level and exits
func Fatal(args ...interface{}) {
	log.Fatal(args...)
}

// Debugf logs a formatted message at debug level
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs a formatted message at info level
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs a formatted message at warn level
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs a formatted message at error level
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Fatalf logs a formatted message at fatal level and exits
func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

// InfoWithFields logs a message at info level with structured fields
func InfoWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Info(msg)
}

// WarnWithFields logs a message at warn level with structured fields
func WarnWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Warn(msg)
}

// ErrorWithFields logs a message at error level with structured fields
func ErrorWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Error(msg)
}

// internal/infra/logger/logger.go
package logger

import (
	"os"
	"strings"
	"time"

	"entitlement_healer/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger instance
var Log = logrus.New()

// Init configures the global logger. The healer is a headless daemon:
// production and staging emit JSON for log shippers, everything else gets
// plain uncolored text suitable for journald and file capture.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
	// Caller info is only worth the overhead when tracing a cycle.
	Log.SetReportCaller(level >= logrus.DebugLevel)

	switch strings.ToLower(cfg.Environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			DisableColors:   true,
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

// Package logging builds the zap loggers used across srcpack.
package logging

import (
	"go.uber.org/zap"
)

// Setup constructs a logger for the given mode. Debug mode uses the
// human-readable development config; otherwise the JSON production config
// is used. The returned logger carries the application name and version
// as initial fields on every entry.
func Setup(debug bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	// Add default fields
	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample(), err
	}

	return logger, nil
}

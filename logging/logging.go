// Package logging builds the logger shared by the commands.
package logging

import (
	"go.uber.org/zap"
)

// New returns a console logger writing to stderr. Unless debug is set only
// warnings and errors are logged.
func New(debug bool) (*zap.SugaredLogger, error) {
	cfg := Config(debug)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Config returns the zap configuration used by New.
func Config(debug bool) zap.Config {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg
}

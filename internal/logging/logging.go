// Package logging builds the process logger.
//
// Logs always go to stderr: stdout carries MCP stdio traffic and command
// output.
package logging

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/clarify/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger from the log section of cfg.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var zc zap.Config
	switch strings.ToLower(cfg.Format) {
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// Verbose raises cfg to debug level when verbose is set.
func Verbose(cfg config.Log, verbose bool) config.Log {
	if verbose {
		cfg.Level = "debug"
	}
	return cfg
}

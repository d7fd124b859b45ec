// Package logger builds the zap logger of a binary from the process configuration.
package logger

import (
	"fmt"

	"gitlab.com/dirk.krummacker/mini-crm/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the logger for the named binary. Production writes JSON lines, every other
// environment writes colored console output. LOG_LEVEL overrides the default level, which is info
// in production and debug otherwise.
func New(cfg config.Config, component string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Production() {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "time"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("could not parse LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	log, err := zapCfg.Build(zap.Fields(
		zap.String("component", component),
		zap.String("env", cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("could not build logger: %w", err)
	}
	return log, nil
}

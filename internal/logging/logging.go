package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hrdesk/internal/config"
)

// New construye el logger según APP_ENV y LOG_LEVEL.
func New(cfg config.RuntimeConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build(zap.Fields(zap.String("service", "hrdesk"), zap.String("env", cfg.AppEnv)))
}

package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hexlayer/tokenvault/internal/daemonconfig"
)

func initLogger(cfg *daemonconfig.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Log.Pretty {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	), nil
}

package commands

import (
	"time"

	"go.uber.org/zap"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/logging"
	"tableflip.dev/daily/pkg/store"
)

// env is what every command needs once config has been read.
type env struct {
	Config  *store.FileConfig
	Logger  *zap.Logger
	Store   store.Persistence
	Service *app.Service
}

func loadEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config",
		zap.String("source", cfg.Source),
		zap.String("path", cfg.Path),
		zap.String("policy", string(cfg.Policy)))
	return &env{
		Config:  cfg,
		Logger:  logger,
		Store:   p,
		Service: &app.Service{Persistence: p, Logger: logger, Now: time.Now},
	}, nil
}

// service is loadEnv for commands that only need the service.
func service() (*app.Service, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	return e.Service, nil
}

package main

import (
	"log/slog"
	"strings"
	"sync"

	"inkwell/internal/api"
	"inkwell/internal/config"
	"inkwell/internal/logging"
	"inkwell/internal/pipeline"
	"inkwell/internal/session"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	service     *api.Service
	store       *session.SQLiteStore
	logger      *slog.Logger
	serviceErr  error

	// reporter, when set before the first ensureService call, receives
	// stage updates for runs this process starts.
	reporter pipeline.Reporter
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureService opens the session store and assembles the provider
// gateway exactly once per process.
func (c *commandContext) ensureService() (*api.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.serviceOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			c.serviceErr = err
			return
		}
		c.logger = logger

		store, err := session.Open(cfg)
		if err != nil {
			c.serviceErr = err
			return
		}
		c.store = store

		gateway, err := api.NewGateway(cfg, logger)
		if err != nil {
			store.Close()
			c.serviceErr = err
			return
		}
		opts := []api.ServiceOption{}
		if c.reporter != nil {
			opts = append(opts, api.WithReporter(c.reporter))
		}
		c.service = api.NewService(cfg, store, gateway, logger, opts...)
	})
	return c.service, c.serviceErr
}

func (c *commandContext) closeService() {
	if c.service != nil {
		c.service.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

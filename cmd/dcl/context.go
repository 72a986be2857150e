package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"dcl/internal/clockify"
	"dcl/internal/config"
	"dcl/internal/logging"
	"dcl/internal/resolver"
	"dcl/internal/services"
	"dcl/internal/store"
	"dcl/internal/timer"
	"dcl/internal/workflow"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	now          func() time.Time

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		now:          time.Now,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "load config", "", err)
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

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level := ""
	if c.logLevelFlag != nil {
		level = *c.logLevelFlag
	}
	logger, err := logging.NewFromConfig(cfg, level)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "configure logging", "", err)
	}
	return logger, nil
}

// withStore opens the cache for the duration of fn.
func (c *commandContext) withStore(ctx context.Context, fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// withRunner wires the cache, Clockify client, resolver and timer into a
// workflow runner for the duration of fn.
func (c *commandContext) withRunner(ctx context.Context, fn func(*workflow.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger()
	if err != nil {
		return err
	}
	client, err := clockify.NewFromConfig(cfg, clockify.WithLogger(logging.NewComponentLogger(logger, "clockify")))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "create clockify client", "", err)
	}
	return c.withStore(ctx, func(st *store.Store) error {
		runner := workflow.New(resolver.New(st, client, logger), timer.New(client, logger), logger)
		return fn(runner)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

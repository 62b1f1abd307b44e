package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"astrogen/internal/config"
	"astrogen/internal/logging"
	"astrogen/internal/sector"
	"astrogen/internal/services"
	"astrogen/internal/subsectorcache"
	"astrogen/internal/travellermap"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("%w: %w", services.ErrConfiguration, err)
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = fmt.Errorf("%w: %w", services.ErrConfiguration, err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("%w: init logger: %w", services.ErrConfiguration, err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newClient() (*travellermap.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := travellermap.New(cfg.TravellerMap.BaseURL,
		travellermap.WithTimeout(cfg.RequestTimeout()),
		travellermap.WithRateLimit(cfg.TravellerMap.RequestsPerSecond, cfg.TravellerMap.Burst),
		travellermap.WithUserAgent(cfg.TravellerMap.UserAgent),
		travellermap.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	return client, nil
}

type builderOptions struct {
	outputDir   string
	concurrency int
	noCache     bool
}

// newBuilder wires the TravellerMap client, the optional cache, and the
// builder. The returned cleanup closes the cache database.
func (c *commandContext) newBuilder(opts builderOptions) (*sector.Builder, *travellermap.Client, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := c.newClient()
	if err != nil {
		return nil, nil, nil, err
	}

	outputDir := cfg.Paths.OutputDir
	if strings.TrimSpace(opts.outputDir) != "" {
		expanded, err := config.ExpandPath(opts.outputDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: resolve output directory: %w", services.ErrConfiguration, err)
		}
		outputDir = expanded
	}
	concurrency := cfg.Build.FetchConcurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}

	var (
		metadata   sector.MetadataProvider  = client
		subsectors sector.SubsectorProvider = client
		cleanup                             = func() {}
	)
	if cfg.Cache.Enabled && !opts.noCache {
		store, err := subsectorcache.Open(cfg.CacheDBPath())
		if err != nil {
			logging.WarnWithContext(logger, "subsector cache unavailable", "cache_open_failed",
				logging.Error(err),
				logging.String("path", cfg.CacheDBPath()),
				logging.String(logging.FieldImpact, "every subsector is fetched from TravellerMap"),
			)
		} else {
			cache := subsectorcache.New(store, client, cfg.CacheTTL(), logger)
			metadata, subsectors = cache, cache
			cleanup = func() { _ = store.Close() }
		}
	}

	builder := sector.New(metadata, subsectors, outputDir,
		sector.WithConcurrency(concurrency),
		sector.WithSectorLister(client),
		sector.WithLogger(logger),
	)
	return builder, client, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// reportedError marks a failure that was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if code := services.ExitCode(err); code != 0 {
		return code
	}
	return 1
}

// configSource describes where the loaded configuration came from.
func (c *commandContext) configSource() string {
	if c.configPath == "" {
		return "defaults"
	}
	if _, err := os.Stat(c.configPath); err != nil {
		return c.configPath + " (not found; defaults used)"
	}
	return c.configPath
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTravellerMap()
	c.normalizeBuild()
	c.normalizeCache()
	c.normalizeServer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("ASTROGEN_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTravellerMap() {
	if value, ok := os.LookupEnv("TRAVELLERMAP_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.TravellerMap.BaseURL = value
	}
	c.TravellerMap.BaseURL = strings.TrimRight(strings.TrimSpace(c.TravellerMap.BaseURL), "/")
	if c.TravellerMap.BaseURL == "" {
		c.TravellerMap.BaseURL = defaultBaseURL
	}
	if c.TravellerMap.TimeoutSeconds <= 0 {
		c.TravellerMap.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.TravellerMap.Burst <= 0 {
		c.TravellerMap.Burst = defaultBurst
	}
	c.TravellerMap.UserAgent = strings.TrimSpace(c.TravellerMap.UserAgent)
	if c.TravellerMap.UserAgent == "" {
		c.TravellerMap.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeBuild() {
	c.Build.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Build.DefaultFormat))
	if c.Build.DefaultFormat == "" {
		c.Build.DefaultFormat = defaultFormat
	}
	if c.Build.FetchConcurrency <= 0 {
		c.Build.FetchConcurrency = defaultFetchConcurrency
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = defaultCacheTTLHours
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.KeepaliveSeconds <= 0 {
		c.Server.KeepaliveSeconds = defaultKeepaliveSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

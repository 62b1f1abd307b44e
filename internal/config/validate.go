package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTravellerMap(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	return c.validateServer()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateTravellerMap() error {
	parsed, err := url.Parse(c.TravellerMap.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("travellermap.base_url %q must be an absolute URL", c.TravellerMap.BaseURL)
	}
	if c.TravellerMap.TimeoutSeconds <= 0 {
		return errors.New("travellermap.timeout_seconds must be positive")
	}
	if c.TravellerMap.RequestsPerSecond < 0 {
		return errors.New("travellermap.requests_per_second must be >= 0 (0 disables limiting)")
	}
	return nil
}

func (c *Config) validateBuild() error {
	if !slices.Contains(SupportedFormats, c.Build.DefaultFormat) {
		return fmt.Errorf("build.default_format %q must be one of %s", c.Build.DefaultFormat, strings.Join(SupportedFormats, ", "))
	}
	if c.Build.FetchConcurrency < 1 || c.Build.FetchConcurrency > maxFetchConcurrency {
		return fmt.Errorf("build.fetch_concurrency must be between 1 and %d", maxFetchConcurrency)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.KeepaliveSeconds <= 0 {
		return errors.New("server.keepalive_seconds must be positive")
	}
	return nil
}

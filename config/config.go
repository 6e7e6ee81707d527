// Package config loads the YAML configuration of the rating commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sslratings/sslratings/origin"
	"github.com/sslratings/sslratings/ratings"
	"github.com/sslratings/sslratings/ratings/observatory"
	"github.com/sslratings/sslratings/ratings/ssllabs"
	"github.com/sslratings/sslratings/report"
	"github.com/sslratings/sslratings/scan"
	"github.com/sslratings/sslratings/site"
)

// Config is the content of a configuration file. Fields missing from the
// file keep their default value.
type Config struct {
	Services struct {
		SSLLabs        string `yaml:"ssllabs"`
		Observatory    string `yaml:"observatory"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"services"`

	Scan struct {
		Publish                 string `yaml:"publish"`
		MaxAge                  int    `yaml:"max_age"`
		OnObservatoryIncomplete string `yaml:"on_observatory_incomplete"`
		OnServiceError          string `yaml:"on_service_error"`
		Layout                  string `yaml:"layout"`
		CheckPreloadList        bool   `yaml:"check_preload_list"`
	} `yaml:"scan"`

	// Sites replaces the built-in registry when not empty.
	Sites []site.Site `yaml:"sites"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := scan.DefaultOptions()

	var cfg Config
	cfg.Services.SSLLabs = ssllabs.DefaultBaseURL
	cfg.Services.Observatory = observatory.DefaultBaseURL
	cfg.Services.TimeoutSeconds = int(ratings.DefaultTimeout / time.Second)
	cfg.Scan.Publish = opts.Publish
	cfg.Scan.MaxAge = opts.MaxAge
	cfg.Scan.OnObservatoryIncomplete = opts.Incomplete.String()
	cfg.Scan.OnServiceError = opts.OnServiceError.String()
	cfg.Scan.Layout = report.Current.String()
	return &cfg
}

// Load reads the configuration file at path on top of the defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration on top of the defaults and validates
// the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and normalizes the service URLs and sites.
func (c *Config) Validate() error {
	var err error
	if c.Services.SSLLabs, err = origin.BaseURL(c.Services.SSLLabs); err != nil {
		return fmt.Errorf("services.ssllabs: %w", err)
	}
	if c.Services.Observatory, err = origin.BaseURL(c.Services.Observatory); err != nil {
		return fmt.Errorf("services.observatory: %w", err)
	}
	if c.Services.TimeoutSeconds <= 0 {
		return errors.New("services.timeout_seconds must be positive")
	}

	if c.Scan.Publish != "on" && c.Scan.Publish != "off" {
		return fmt.Errorf("scan.publish must be on or off, got %q", c.Scan.Publish)
	}
	if c.Scan.MaxAge < 0 {
		return fmt.Errorf("scan.max_age must not be negative, got %d", c.Scan.MaxAge)
	}
	if _, err := c.ScanOptions(); err != nil {
		return err
	}
	if _, err := c.Layout(); err != nil {
		return fmt.Errorf("scan.layout: %w", err)
	}

	if len(c.Sites) > 0 {
		if c.Sites, err = site.Validate(c.Sites); err != nil {
			return fmt.Errorf("sites: %w", err)
		}
	}
	return nil
}

// Timeout is the deadline of a single service call.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Services.TimeoutSeconds) * time.Second
}

// ScanOptions returns the options for a scan.Runner.
func (c *Config) ScanOptions() (scan.Options, error) {
	incomplete, err := scan.ParseIncompletePolicy(c.Scan.OnObservatoryIncomplete)
	if err != nil {
		return scan.Options{}, fmt.Errorf("scan.on_observatory_incomplete: %w", err)
	}
	onError, err := scan.ParseServiceErrorPolicy(c.Scan.OnServiceError)
	if err != nil {
		return scan.Options{}, fmt.Errorf("scan.on_service_error: %w", err)
	}

	return scan.Options{
		Publish:          c.Scan.Publish,
		MaxAge:           c.Scan.MaxAge,
		Incomplete:       incomplete,
		OnServiceError:   onError,
		CheckPreloadList: c.Scan.CheckPreloadList,
	}, nil
}

// Layout returns the report layout.
func (c *Config) Layout() (report.Layout, error) {
	return report.ParseLayout(c.Scan.Layout)
}

// SiteList returns the configured sites, or the built-in registry.
func (c *Config) SiteList() []site.Site {
	if len(c.Sites) > 0 {
		return c.Sites
	}
	return site.Default()
}

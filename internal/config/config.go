package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"PriceBoard/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		Mode      string `yaml:"mode"` // gin mode: debug, release, test
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Generator struct {
		BasePrice      float64 `yaml:"base_price"`
		NoiseAmplitude float64 `yaml:"noise_amplitude"`
		Seed           uint64  `yaml:"seed"`
	} `yaml:"generator"`
	Ranges       []model.RangeSpec `yaml:"ranges"`
	DefaultRange string            `yaml:"default_range"`
	Timezone     string            `yaml:"timezone"`
	Schedule     struct {
		RolloverCron string `yaml:"rollover_cron"`
	} `yaml:"schedule"`
	Journal struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"journal"`
	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		Filename   string `yaml:"filename"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	Metrics struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file yields the defaults.
// Numeric settings keep an explicit zero from the file or environment.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PRICEBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PRICEBOARD_DEFAULT_RANGE"); v != "" {
		c.DefaultRange = v
	}
	if v := os.Getenv("PRICEBOARD_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("PRICEBOARD_BASE_PRICE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICEBOARD_BASE_PRICE: %w", err)
		}
		c.Generator.BasePrice = f
	}
	if v := os.Getenv("PRICEBOARD_NOISE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICEBOARD_NOISE: %w", err)
		}
		c.Generator.NoiseAmplitude = f
	}
	if v := os.Getenv("PRICEBOARD_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PRICEBOARD_SEED: %w", err)
		}
		c.Generator.Seed = n
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Journal.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ROLLOVER_CRON"); v != "" {
		c.Schedule.RolloverCron = v
	}
	return nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.Server.RateLimit.RPS = 10
	c.Server.RateLimit.Burst = 20
	c.Generator.BasePrice = 63000
	c.Generator.NoiseAmplitude = 2500
	c.Log.MaxSize = 100
	c.Log.MaxBackups = 5
	c.Log.MaxAge = 30
	return c
}

// applyDefaults fills settings left empty by the file and environment.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if len(c.Ranges) == 0 {
		c.Ranges = append([]model.RangeSpec(nil), model.DefaultRanges...)
	}
	if c.DefaultRange == "" {
		c.DefaultRange = model.DefaultRangeID
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Schedule.RolloverCron == "" {
		c.Schedule.RolloverCron = "0 0 0 * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Metrics.Enabled == nil {
		enabled := true
		c.Metrics.Enabled = &enabled
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// MetricsEnabled reports whether /metrics is served.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Catalog builds the range catalog from the configured ranges.
func (c *Config) Catalog() (model.Catalog, error) {
	return model.NewCatalog(c.Ranges)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	catalog, err := c.Catalog()
	if err != nil {
		return fmt.Errorf("ranges: %w", err)
	}
	if _, ok := catalog.Lookup(c.DefaultRange); !ok {
		return fmt.Errorf("default_range %q is not in ranges", c.DefaultRange)
	}
	if c.Generator.NoiseAmplitude < 0 {
		return errors.New("generator.noise_amplitude must be >= 0")
	}
	if c.Generator.BasePrice <= c.Generator.NoiseAmplitude {
		return errors.New("generator.base_price must exceed generator.noise_amplitude")
	}
	if c.Server.RateLimit.RPS < 0 || c.Server.RateLimit.Burst < 0 {
		return errors.New("server.rate_limit values must be >= 0")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Log.Output == "file" && c.Log.Filename == "" {
		return errors.New("log.filename is required when log.output is file")
	}
	return nil
}

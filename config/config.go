package config

import (
	"fmt"
	"time"

	"shelfwatch/scraper"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all process configuration, loaded once at startup from the
// environment (SHELFWATCH_* variables) and passed explicitly to the parts
// that need it.
type Config struct {
	Host              string   `default:"0.0.0.0"`
	Port              string   `default:"8080"`
	AllowedOrigins    []string `split_words:"true" default:"http://localhost:3000"`
	DatabasePath      string   `split_words:"true" default:"data/prices.db"`
	CollectSchedule   string   `split_words:"true" default:"0 0 */12 * * *"`
	CollectOnStartup  bool     `split_words:"true" default:"false"`
	LookbackDays      int      `split_words:"true" default:"30"`
	RequestsPerSecond float64  `split_words:"true" default:"5"`

	BrowserBin      string        `split_words:"true"`
	BrowserHeadless bool          `split_words:"true" default:"true"`
	WindowWidth     int           `split_words:"true" default:"1920"`
	WindowHeight    int           `split_words:"true" default:"1080"`
	SelectorWait    time.Duration `split_words:"true" default:"10s"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("shelfwatch", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	return &cfg, nil
}

// Browser returns the browser configuration shared by every scraper
// invocation in this run.
func (c *Config) Browser() scraper.BrowserConfig {
	return scraper.BrowserConfig{
		Bin:          c.BrowserBin,
		Headless:     c.BrowserHeadless,
		WindowWidth:  c.WindowWidth,
		WindowHeight: c.WindowHeight,
		SelectorWait: c.SelectorWait,
	}
}

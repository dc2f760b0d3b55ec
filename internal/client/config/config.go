// Package config loads runtime settings for the carrier agent.
package config

import "time"

// Config holds runtime settings for the carrier agent.
//
// Units: SendInterval and RequestTimeout are time.Durations.
type Config struct {
	ServerURL      string
	DatabaseDSN    string
	Token          string
	CarrierClass   string
	SendInterval   time.Duration
	RequestTimeout time.Duration
	RoutePath      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.DatabaseDSN = "presence_agent.db"
	c.CarrierClass = "freelance"
	c.SendInterval = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import "time"

// Config holds runtime settings for the jobkeeper client.
//
// Units: OnlineCheckInterval and RequestTimeout are time.Duration values.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration

	DBPath     string
	StagingDir string

	LogFile  string
	LogLevel string

	SyncConcurrency int
	SyncSchedule    string
	PullOnSync      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "https://sandbox-job-app.bosselt.com"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.DBPath = "jobkeeper.db"
	c.StagingDir = "staging"
	c.LogFile = "jobkeeper.log"
	c.LogLevel = "info"
	c.SyncConcurrency = 4
	c.SyncSchedule = ""
	c.PullOnSync = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

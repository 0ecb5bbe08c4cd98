package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/jobkeeper/internal/flagx"
	"github.com/dmitrijs2005/jobkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-valued fields that are absent in the file leave the Config untouched.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DBPath              string         `json:"db_path"`
	StagingDir          string         `json:"staging_dir"`
	LogFile             string         `json:"log_file"`
	LogLevel            string         `json:"log_level"`
	SyncConcurrency     int            `json:"sync_concurrency"`
	SyncSchedule        string         `json:"sync_schedule"`
	PullOnSync          *bool          `json:"pull_on_sync"`
}

// parseJson overlays cfg with the file named by -c or -config in args.
// Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.StagingDir, jc.StagingDir)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.SyncSchedule, jc.SyncSchedule)

	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SyncConcurrency > 0 {
		cfg.SyncConcurrency = jc.SyncConcurrency
	}
	if jc.PullOnSync != nil {
		cfg.PullOnSync = *jc.PullOnSync
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/flagx"
)

var knownFlags = []string{"-a", "-i", "-d", "-s", "-l", "-schedule"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string         base URL of the job API
//	-i int            online check interval in seconds
//	-d string         local database path
//	-s string         staging directory for video files
//	-l string         log file path ("" logs to stderr)
//	-schedule string  cron spec for periodic sync ("" disables it)
//
// Unrelated arguments are dropped with flagx.FilterArgs before parsing.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("jobkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the job API")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.StagingDir, "s", cfg.StagingDir, "staging directory for video files")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file path")
	fs.StringVar(&cfg.SyncSchedule, "schedule", cfg.SyncSchedule, "cron spec for periodic sync")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *onlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %d", *onlineCheckInterval)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}

// Package config loads runtime configuration for the jobkeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds. Absent keys keep the earlier value:
//
//	{
//	  "server_url": "https://sandbox-job-app.bosselt.com",
//	  "online_check_interval": "3s",
//	  "request_timeout": "30s",
//	  "db_path": "jobkeeper.db",
//	  "staging_dir": "staging",
//	  "log_file": "jobkeeper.log",
//	  "log_level": "info",
//	  "sync_concurrency": 4,
//	  "sync_schedule": "@every 15m",
//	  "pull_on_sync": true
//	}
//
// The package does not read environment variables.
package config

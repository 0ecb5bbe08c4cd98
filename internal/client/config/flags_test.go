package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name    string
		args    []string
		want    func() *Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://127.0.0.1:9090", "-i", "10", "-d", "x.db", "-s", "stage", "-l", "", "-schedule", "@every 5m"},
			want: func() *Config {
				c := base()
				c.ServerURL = "http://127.0.0.1:9090"
				c.OnlineCheckInterval = 10 * time.Second
				c.DBPath = "x.db"
				c.StagingDir = "stage"
				c.LogFile = ""
				c.SyncSchedule = "@every 5m"
				return c
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-v", "-x", "1", "-d", "y.db"},
			want: func() *Config {
				c := base()
				c.DBPath = "y.db"
				return c
			},
		},
		{name: "non-numeric interval", args: []string{"-i", "abc"}, wantErr: true},
		{name: "zero interval", args: []string{"-i", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want(), cfg))
		})
	}
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:8080", "-n", ":6000", "-d", "db", "-s", "secret",
				"-t", "15", "-r", "60", "-o", "http://a.test,http://b.test", "-l", "console",
				"-w", "2s", "-i", "0s",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				HTTPAddr:                     "127.0.0.1:8080",
				GRPCAddr:                     ":6000",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  15 * time.Minute,
				RefreshTokenValidityDuration: 60 * time.Minute,
				AllowedOrigins:               []string{"http://a.test", "http://b.test"},
				LogFormat:                    "console",
				RequestTimeout:               2 * time.Second,
				SessionPruneInterval:         0,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
			},
		},
		{
			name:        "bad duration",
			args:        []string{"cmd", "-w", "soon"},
			expectPanic: true,
		},
		{
			name:        "bad minutes",
			args:        []string{"cmd", "-t", "one"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsValuesWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-c", "ignored.json"}

	var c Config
	c.LoadDefaults()
	want := c

	parseFlags(&c)

	assert.Empty(t, cmp.Diff(want, c))
}

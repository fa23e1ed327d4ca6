package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys understood by Load. Each one can come from the config file, from a
// GOPHFORUM_<KEY> environment variable, or from a bound command-line flag.
const (
	KeyConfigFile     = "config"
	KeyServerURL      = "server_url"
	KeyGRPCAddr       = "grpc_addr"
	KeyDatabasePath   = "database_path"
	KeyRequestTimeout = "request_timeout"
)

const envPrefix = "GOPHFORUM"

// Config holds runtime settings for the GophForum CLI.
type Config struct {
	ServerURL      string
	GRPCAddr       string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.GRPCAddr = "localhost:50051"
	c.DatabasePath = "gophforum.db"
	c.RequestTimeout = 10 * time.Second
}

// NewViper returns a viper instance with defaults and environment lookup
// wired. Flags are bound on top of it by the caller.
func NewViper() *viper.Viper {
	var d Config
	d.LoadDefaults()

	v := viper.New()
	v.SetDefault(KeyServerURL, d.ServerURL)
	v.SetDefault(KeyGRPCAddr, d.GRPCAddr)
	v.SetDefault(KeyDatabasePath, d.DatabasePath)
	v.SetDefault(KeyRequestTimeout, d.RequestTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file named by the "config" key and builds
// a Config. Precedence, highest first: flags, environment, file, defaults.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		ServerURL:      strings.TrimRight(v.GetString(KeyServerURL), "/"),
		GRPCAddr:       v.GetString(KeyGRPCAddr),
		DatabasePath:   v.GetString(KeyDatabasePath),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return errors.New("server url must not be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("database path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

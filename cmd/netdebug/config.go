package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codincodee/asyncnet"
	"gopkg.in/yaml.v3"
)

// Config holds the netdebug configuration.
type Config struct {
	Addr            string        `yaml:"addr"`
	Proto           string        `yaml:"proto"`
	MaxDepth        int           `yaml:"max_depth"`
	InboundDepth    int           `yaml:"inbound_depth"`
	IdleWait        time.Duration `yaml:"idle_wait"`
	PollTimeout     time.Duration `yaml:"poll_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Include         string        `yaml:"include"`
	Exclude         string        `yaml:"exclude"`
	LogLevel        string        `yaml:"log_level"`
}

// DefaultPath returns the default config file path: ~/.netdebug/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".netdebug", "config.yaml")
	}
	return filepath.Join(home, ".netdebug", "config.yaml")
}

// defaultConfig mirrors asyncnet's defaults.
func defaultConfig() *Config {
	return &Config{
		Addr:            "localhost:3456",
		Proto:           "tcp",
		MaxDepth:        asyncnet.DefaultMaxDepth,
		IdleWait:        asyncnet.DefaultIdleWait,
		PollTimeout:     asyncnet.DefaultPollTimeout,
		ShutdownTimeout: 2 * time.Second,
		LogLevel:        "info",
	}
}

// Load reads the configuration from the given YAML file path.
// If the file does not exist, it returns the default Config with no error.
// Values are not validated here; flags may still override them.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	switch c.Proto {
	case "tcp", "udp":
	default:
		return fmt.Errorf("unsupported proto %q: want tcp or udp", c.Proto)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	return nil
}

// factory returns the socket factory for the configured protocol.
func (c *Config) factory() asyncnet.Factory {
	opts := asyncnet.DefaultSocketOptions()
	if c.PollTimeout > 0 {
		opts.PollTimeout = c.PollTimeout
	}
	if c.Proto == "udp" {
		return asyncnet.UDPFactory(opts)
	}
	return asyncnet.TCPFactory(opts)
}

// newServer builds an unstarted asyncnet.Server with the configured filter.
func (c *Config) newServer(logger asyncnet.Logger) (*asyncnet.Server, error) {
	pred, err := buildPredicate(c.Include, c.Exclude)
	if err != nil {
		return nil, err
	}

	srv := asyncnet.New(c.Addr, c.factory(), &asyncnet.Config{
		MaxDepth:        c.MaxDepth,
		InboundDepth:    c.InboundDepth,
		IdleWait:        c.IdleWait,
		ShutdownTimeout: c.ShutdownTimeout,
		Logger:          logger,
	})
	srv.SetAdmissionPredicate(pred)

	return srv, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Pool struct {
		DistributionYears uint64 `yaml:"distribution_years"`
		InitialFunding    uint64 `yaml:"initial_funding"`
		StateFile         string `yaml:"state_file"`
	} `yaml:"pool"`
	Gateway struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"gateway"`
	Schedule struct {
		SnapshotCron string `yaml:"snapshot_cron"`
		ReportCron   string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("POOL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("POOL_DISTRIBUTION_YEARS"); v != "" {
		if years, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.DistributionYears = years
		}
	}
	if v := os.Getenv("POOL_INITIAL_FUNDING"); v != "" {
		if funding, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Pool.InitialFunding = funding
		}
	}
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("GATEWAY_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SNAPSHOT"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Pool.DistributionYears == 0 {
		cfg.Pool.DistributionYears = 10
	}
	if cfg.Pool.StateFile == "" {
		cfg.Pool.StateFile = "data/pool_state.json"
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 0 * * * *"
	}
	if cfg.Schedule.ReportCron == "" {
		cfg.Schedule.ReportCron = "0 0 8 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/rewardpool.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Pool.DistributionYears < 1 || c.Pool.DistributionYears > 255 {
		return fmt.Errorf("pool.distribution_years must be between 1 and 255")
	}
	if c.Pool.InitialFunding == 0 {
		return fmt.Errorf("pool.initial_funding is required")
	}
	if c.Pool.StateFile == "" {
		return fmt.Errorf("pool.state_file is required")
	}
	return nil
}

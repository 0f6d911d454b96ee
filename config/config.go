package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type (
	app struct {
		Name     string `json:"name" mapstructure:"name"`
		Env      string `json:"env" mapstructure:"env"`
		Port     int    `json:"port" mapstructure:"port"`
		Timezone string `json:"timezone" mapstructure:"timezone"`
		Version  string `json:"version" mapstructure:"version"`
	}

	influxDb struct {
		// Version selection - determines which InfluxDB implementation to use
		Version string `json:"version,omitempty" mapstructure:"version"` // "v2-oss" or "v3-core"

		// v2-oss fields (InfluxDB v2 OSS)
		URL string `json:"url,omitempty" mapstructure:"url"` // Complete URL like http://localhost:8086
		Org string `json:"org,omitempty" mapstructure:"org"` // Organization name

		// Common fields (used by both versions)
		Token  string `json:"token" mapstructure:"token"`
		Bucket string `json:"bucket" mapstructure:"bucket"` // Fallback bucket when a dataset has none

		// v3-core fields (InfluxDB v3 Core)
		Host       string `json:"host,omitempty" mapstructure:"host"`
		Port       int    `json:"port,omitempty" mapstructure:"port"`
		AuthScheme string `json:"auth_scheme,omitempty" mapstructure:"auth_scheme"`
		Node       string `json:"node,omitempty" mapstructure:"node"`
	}

	redis struct {
		Mode     string `json:"mode" mapstructure:"mode"` // "single", "cluster", "sentinel"
		Host     string `json:"host" mapstructure:"host"`
		Port     int    `json:"port" mapstructure:"port"`
		Password string `json:"password" mapstructure:"password"`
		DB       int    `json:"db" mapstructure:"db"`
		Cluster  struct {
			Nodes    []string `json:"nodes" mapstructure:"nodes"`
			Password string   `json:"password" mapstructure:"password"`
		} `json:"cluster" mapstructure:"cluster"`
	}

	asynq struct {
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		DB          int `json:"db" mapstructure:"db"`
		PoolSize    int `json:"pool_size" mapstructure:"pool_size"`
	}

	auth struct {
		Enabled bool           `json:"enabled" mapstructure:"enabled"`
		Issuer  string         `json:"issuer" mapstructure:"issuer"`
		Clients []ClientConfig `json:"clients" mapstructure:"clients"`
	}

	sampling struct {
		// MaxPoints is the default point budget per chart query. Requests
		// may lower it but never raise it past MaxPointsCeiling.
		MaxPoints        int `json:"max_points" mapstructure:"max_points"`
		MaxPointsCeiling int `json:"max_points_ceiling" mapstructure:"max_points_ceiling"`
	}

	cache struct {
		Backend    string `json:"backend" mapstructure:"backend"` // "memory" or "redis"
		MaxEntries int    `json:"max_entries" mapstructure:"max_entries"`
		TTL        string `json:"ttl" mapstructure:"ttl"`
	}

	// DatasetConfig maps one browsable dataset to its storage bucket.
	DatasetConfig struct {
		ID          string `json:"id" mapstructure:"id"`
		Name        string `json:"name" mapstructure:"name"`
		Bucket      string `json:"bucket" mapstructure:"bucket"`
		Description string `json:"description" mapstructure:"description"`
	}

	// ClientConfig describes one API client allowed to write data.
	ClientConfig struct {
		ClientID    string   `json:"client_id" mapstructure:"client_id"`
		ClientName  string   `json:"client_name" mapstructure:"client_name"`
		SecretKey   string   `json:"secret_key" mapstructure:"secret_key"`
		Permissions []string `json:"permissions" mapstructure:"permissions"`
		Active      bool     `json:"active" mapstructure:"active"`
	}

	Config struct {
		App      app             `json:"app" mapstructure:"app"`
		InfluxDB influxDb        `json:"influxdb" mapstructure:"influxdb"`
		Redis    redis           `json:"redis" mapstructure:"redis"`
		Asynq    asynq           `json:"asynq" mapstructure:"asynq"`
		Auth     auth            `json:"auth" mapstructure:"auth"`
		Sampling sampling        `json:"sampling" mapstructure:"sampling"`
		Cache    cache           `json:"cache" mapstructure:"cache"`
		Datasets []DatasetConfig `json:"datasets" mapstructure:"datasets"`
	}

	// RedisConfig is an alias for the internal redis struct for external access
	RedisConfig = redis
)

var cfg *Config

// Init loads configuration from .config file
func Init() error {
	viper.SetConfigName(".config")
	viper.SetConfigType("json")
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// Get returns the current configuration instance
func Get() *Config {
	return cfg
}

// Set replaces the current configuration instance. Used by the client CLI
// after mutating the client list, and by tests.
func Set(c *Config) {
	cfg = c
}

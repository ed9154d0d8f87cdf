package main

import (
	"fmt"
	"strings"
	"time"

	"geohunt_backend/internal/chain"
	"geohunt_backend/internal/notifier"
	"geohunt_backend/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	Chain    chain.Config      `yaml:"chain"`
	Redis    RedisConfig       `yaml:"redis"`
	Telegram notifier.Config   `yaml:"telegram"`

	JWTSecret string          `yaml:"jwtSecret"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Sweep     SweepConfig     `yaml:"sweep"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DiscoveryConfig struct {
	// AllowSynthesis enables the degraded path that creates a
	// floor-value treasure for unknown ids.
	AllowSynthesis bool `yaml:"allowSynthesis"`

	// RateLimit bounds discover calls per player per minute.
	RateLimit int `yaml:"rateLimit"`
}

type SweepConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwtSecret is required")
	}

	return &cfg, nil
}

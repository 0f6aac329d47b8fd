package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargeshare/libs/config"
)

// InsecureDefaultSecret is used when no JWT secret is configured. Running
// with it is a deployment hazard; the app logs a warning at startup.
const InsecureDefaultSecret = "your-secret-key"

// Config holds the full service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CHARGESHARE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"CHARGESHARE_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"CHARGESHARE_REDIS_ADDR"`
		Password string `yaml:"password" env:"CHARGESHARE_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"CHARGESHARE_REDIS_DB"`
	} `yaml:"redis"`
	JWT struct {
		Secret            string `yaml:"secret" env:"CHARGESHARE_JWT_SECRET"`
		UserExpiresHours  int    `yaml:"userExpiresHours" env:"CHARGESHARE_JWT_USER_EXPIRES_HOURS"`
		AdminExpiresHours int    `yaml:"adminExpiresHours" env:"CHARGESHARE_JWT_ADMIN_EXPIRES_HOURS"`
	} `yaml:"jwt"`
	Admin struct {
		Username string `yaml:"username" env:"CHARGESHARE_ADMIN_USERNAME"`
		Password string `yaml:"password" env:"CHARGESHARE_ADMIN_PASSWORD"`
	} `yaml:"admin"`
	Charging struct {
		StartingMinutes   int `yaml:"startingMinutes" env:"CHARGESHARE_STARTING_MINUTES"`
		MaxSessionMinutes int `yaml:"maxSessionMinutes" env:"CHARGESHARE_MAX_SESSION_MINUTES"`
	} `yaml:"charging"`
}

// Load reads configuration via the shared loader and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.JWT.UserExpiresHours = 168
	cfg.JWT.AdminExpiresHours = 24
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "admin123"
	cfg.Charging.StartingMinutes = 60
	cfg.Charging.MaxSessionMinutes = 240

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = InsecureDefaultSecret
	}
	if cfg.JWT.UserExpiresHours <= 0 {
		cfg.JWT.UserExpiresHours = 168
	}
	if cfg.JWT.AdminExpiresHours <= 0 {
		cfg.JWT.AdminExpiresHours = 24
	}
	if cfg.Charging.StartingMinutes < 0 {
		cfg.Charging.StartingMinutes = 0
	}
	if cfg.Charging.MaxSessionMinutes <= 0 {
		cfg.Charging.MaxSessionMinutes = 240
	}

	return cfg, nil
}

// HTTPAddress always returns a host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// UserTokenTTL returns the user token lifetime.
func (c *Config) UserTokenTTL() time.Duration {
	return time.Duration(c.JWT.UserExpiresHours) * time.Hour
}

// AdminTokenTTL returns the admin token lifetime.
func (c *Config) AdminTokenTTL() time.Duration {
	return time.Duration(c.JWT.AdminExpiresHours) * time.Hour
}

// MaxSessionDuration returns the hard cap on a charging session.
func (c *Config) MaxSessionDuration() time.Duration {
	return time.Duration(c.Charging.MaxSessionMinutes) * time.Minute
}

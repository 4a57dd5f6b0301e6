// Package config loads server settings from defaults, an optional YAML file
// and NAJDENO_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Config holds the server settings.
type Config struct {
	DBPath          string        `mapstructure:"db" env:"DB"`
	Addr            string        `mapstructure:"addr" env:"ADDR"`
	JWTSecret       string        `mapstructure:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer       string        `mapstructure:"jwt_issuer" env:"JWT_ISSUER"`
	LogFile         string        `mapstructure:"log_file" env:"LOG"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NAJDENO_"

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:          "najdeno.sqlite3",
		Addr:            ":8080",
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds the configuration. A non-empty path names a YAML file that must
// exist; values from the environment override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path must not be empty"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	return errors.Join(errs...)
}

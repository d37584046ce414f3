// Package config reads the process configuration from a .env file,
// environment variables and flags, in increasing precedence of
// environment over flag defaults.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the process-level parameters. Quality criteria and
// packing parameters live in the settings document, not here.
type Config struct {
	Addr          string `env:"QC_ADDR"`
	DataDir       string `env:"QC_DATA_DIR"`
	AdminUser     string `env:"QC_ADMIN_USER"`
	AdminPassword string `env:"QC_ADMIN_PASSWORD"`
	Debug         bool   `env:"QC_DEBUG"`
}

// Parse loads the configuration. A missing .env file is not an error.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAddr := cfg.Addr
	envDataDir := cfg.DataDir
	envAdminUser := cfg.AdminUser

	flag.StringVar(&cfg.Addr, "a", ":9000", "address and port for the HTTP server")
	flag.StringVar(&cfg.DataDir, "d", "data", "directory for ledger documents and backups")
	flag.StringVar(&cfg.AdminUser, "u", "admin", "bootstrap administrator username")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flag.Parse()

	if envAddr != "" {
		cfg.Addr = envAddr
	}
	if envDataDir != "" {
		cfg.DataDir = envDataDir
	}
	if envAdminUser != "" {
		cfg.AdminUser = envAdminUser
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin"
	}

	return cfg, nil
}

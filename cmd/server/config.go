package main

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/quarrydb/quarry/logger"
)

// Config is the server configuration, loaded from a YAML file.
type Config struct {
	// Listen is the TCP address to serve on.
	Listen string `yaml:"listen"`

	// SnapshotDir, when set, is where the engine state is restored
	// from on boot and saved to on shutdown.
	SnapshotDir string `yaml:"snapshot_dir"`

	Log  logger.Config `yaml:"log"`
	Auth AuthConfig    `yaml:"auth"`
}

// AuthConfig configures connection authentication.
type AuthConfig struct {
	// Enabled requires every connection to authenticate before
	// issuing statements.
	Enabled bool `yaml:"enabled"`

	// JWTSecret is the shared secret for HS256 token validation.
	JWTSecret string `yaml:"jwt_secret"`

	// Issuer is the expected "iss" claim, if set.
	Issuer string `yaml:"issuer"`

	// Audience is the expected "aud" claim, if set.
	Audience string `yaml:"audience"`

	// NameClaim is the JWT claim holding the user's name
	// (default "name").
	NameClaim string `yaml:"name_claim"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen: ":7433",
		Log:    logger.Config{Level: "info", Format: "json"},
	}
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = ":7433"
	}
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		return cfg, fmt.Errorf("auth enabled but jwt_secret is not set")
	}
	return cfg, nil
}

// Package config loads runtime settings for the shield engine and CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Short command-line flags (see parseFlags).
package config

import "time"

// Config holds the engine tunables.
//
// Fields:
//   - StartMode: "secure" or "vulnerable", the mode the process starts in.
//   - PasswordMinLength: minimum password length enforced by the policy.
//   - PasswordHistory: how many previous password hashes an account keeps.
//   - MaxLoginAttempts: failed logins before the account locks for good.
//   - ResetTokenValidity: lifetime of a password reset token.
//   - Hasher: "hmac" (placeholder, fast) or "argon2".
//   - LogLevel: slog level name.
type Config struct {
	StartMode          string
	PasswordMinLength  int
	PasswordHistory    int
	MaxLoginAttempts   int
	ResetTokenValidity time.Duration
	Hasher             string
	LogLevel           string
}

// LoadDefaults resets c to the built-in values.
func (c *Config) LoadDefaults() {
	c.StartMode = "secure"
	c.PasswordMinLength = 10
	c.PasswordHistory = 3
	c.MaxLoginAttempts = 3
	c.ResetTokenValidity = 15 * time.Minute
	c.Hasher = "hmac"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/commsshield/internal/flagx"
	"github.com/dmitrijs2005/commsshield/internal/timex"
	"gopkg.in/yaml.v2"
)

// JsonConfig is the on-disk shape of Config. Durations accept "15m" or
// integer nanoseconds. The same keys work in YAML files.
type JsonConfig struct {
	StartMode          string         `json:"start_mode" yaml:"start_mode"`
	PasswordMinLength  int            `json:"password_min_length" yaml:"password_min_length"`
	PasswordHistory    int            `json:"password_history" yaml:"password_history"`
	MaxLoginAttempts   int            `json:"max_login_attempts" yaml:"max_login_attempts"`
	ResetTokenValidity timex.Duration `json:"reset_token_validity" yaml:"reset_token_validity"`
	Hasher             string         `json:"hasher" yaml:"hasher"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
}

func decodeFile(path string, data []byte, c *JsonConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

// parseJson overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are read as YAML, anything else as JSON. Keys missing
// from the file leave the current value alone. An unreadable file or a
// decode error panics, the same as a bad flag.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := decodeFile(path, file, c); err != nil {
		panic(err)
	}

	if c.StartMode != "" {
		config.StartMode = c.StartMode
	}
	if c.PasswordMinLength > 0 {
		config.PasswordMinLength = c.PasswordMinLength
	}
	if c.PasswordHistory > 0 {
		config.PasswordHistory = c.PasswordHistory
	}
	if c.MaxLoginAttempts > 0 {
		config.MaxLoginAttempts = c.MaxLoginAttempts
	}
	if c.ResetTokenValidity.Duration > 0 {
		config.ResetTokenValidity = c.ResetTokenValidity.Duration
	}
	if c.Hasher != "" {
		config.Hasher = c.Hasher
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}

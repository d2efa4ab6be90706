package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configFilePath = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	DataDir            string   `json:"data-dir" mapstructure:"data-dir"`
	LogDir             string   `json:"log-dir" mapstructure:"log-dir"`
	LogLevel           string   `json:"log-level" mapstructure:"log-level"`
	MenuTimeoutSeconds int      `json:"menu-timeout-seconds" mapstructure:"menu-timeout-seconds"`
	PollIntervalMs     int      `json:"poll-interval-ms" mapstructure:"poll-interval-ms"`
	SeedFiles          []string `json:"seed-files" mapstructure:"seed-files"`
	ForceLineInput     bool     `json:"force-line-input" mapstructure:"force-line-input"`
}

var requiredFields = []string{
	"data-dir",
}

// field: default value
var optionalFields = map[string]interface{}{
	"log-dir":              "logs",
	"log-level":            "INFO",
	"menu-timeout-seconds": 600,
	"poll-interval-ms":     1000,
	"seed-files": []string{
		"inventario.txt",
		"proveedores.txt",
		"clientes.txt",
		"configuracion.txt",
	},
	"force-line-input": false,
}

// InitConfig reads configuration from a JSON file and environment variables.
// Environment variables take precedence over the config file. An empty path
// means config.json in the working directory; a missing file is not an error.
func InitConfig(path string) (*Config, error) {
	if path == "" {
		path = configFilePath
	}
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, field := range requiredFields {
		v.BindEnv(field)
	}
	for field, defaultValue := range optionalFields {
		v.SetDefault(field, defaultValue)
		v.BindEnv(field)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	for _, field := range requiredFields {
		if !v.IsSet(field) {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	// SEED_FILES may come from the environment as a JSON array or a comma
	// separated list.
	if s, ok := v.Get("seed-files").(string); ok {
		var parsed []string
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			v.Set("seed-files", parsed)
		} else {
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			v.Set("seed-files", parts)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("invalid config: data-dir cannot be empty")
	}
	if c.MenuTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config: menu-timeout-seconds must be positive, got %d", c.MenuTimeoutSeconds)
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("invalid config: poll-interval-ms must be positive, got %d", c.PollIntervalMs)
	}
	return nil
}

func (c *Config) MenuTimeout() time.Duration {
	return time.Duration(c.MenuTimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

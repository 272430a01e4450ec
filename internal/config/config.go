package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	APIBaseURL         string `yaml:"apiBaseURL"`
	LogLevel           string `yaml:"logLevel"`
	HTTPTimeout        string `yaml:"httpTimeout"`
	CredentialsBackend string `yaml:"credentialsBackend"`
	CredentialsPath    string `yaml:"credentialsPath"`
	RedisAddr          string `yaml:"redisAddr"`
	RedisPassword      string `yaml:"redisPassword"`
}

// Load reads config from path (defaults to config.yaml), then applies
// environment overrides and validates the result.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("SCREENER_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("SCREENER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("SCREENER_HTTP_TIMEOUT"); v != "" {
		cfg.HTTPTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("SCREENER_CREDENTIALS_BACKEND"); v != "" {
		cfg.CredentialsBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("SCREENER_CREDENTIALS_PATH"); v != "" {
		cfg.CredentialsPath = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return errors.New("config: apiBaseURL is required (set in config.yaml or SCREENER_API_BASE_URL)")
	}
	switch cfg.CredentialsBackend {
	case "", "file":
		if strings.TrimSpace(cfg.CredentialsPath) == "" {
			return errors.New("config: credentialsPath is required for the file credentials backend")
		}
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for the redis credentials backend")
		}
	default:
		return fmt.Errorf("config: unknown credentialsBackend %q (use file or redis)", cfg.CredentialsBackend)
	}
	if _, err := ParseHTTPTimeout(cfg.HTTPTimeout); err != nil {
		return err
	}
	return nil
}

// ParseHTTPTimeout parses the optional HTTP timeout duration string.
// An empty value means 30s.
func ParseHTTPTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 30 * time.Second, nil
	}
	dur, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid httpTimeout duration: %w", err)
	}
	return dur, nil
}

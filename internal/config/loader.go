package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "voxpilot.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "VOXPILOT_PORT")
	setString(&cfg.Server.CORSOrigin, "VOXPILOT_CORS_ORIGIN")
	setString(&cfg.Anthropic.BaseURL, "ANTHROPIC_BASE_URL")
	setString(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "VOXPILOT_AI_MODEL")
	setInt(&cfg.Anthropic.MaxTokens, "VOXPILOT_AI_MAX_TOKENS")
	setDuration(&cfg.Anthropic.Timeout, "VOXPILOT_AI_TIMEOUT")
	setString(&cfg.Whisper.URL, "WHISPER_URL")
	setString(&cfg.Whisper.APIKey, "WHISPER_API_KEY")
	setString(&cfg.Whisper.Model, "WHISPER_MODEL")
	setDuration(&cfg.Whisper.Timeout, "VOXPILOT_STT_TIMEOUT")
	setInt(&cfg.Usage.DailyAILimit, "VOXPILOT_DAILY_AI_LIMIT")
	setString(&cfg.NATS.URL, "NATS_URL")
	setInt64(&cfg.Cache.MaxSizeMB, "VOXPILOT_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "VOXPILOT_CACHE_TTL")
	setString(&cfg.MCP.Addr, "VOXPILOT_MCP_ADDR")
	setString(&cfg.Logging.Level, "VOXPILOT_LOG_LEVEL")
	setString(&cfg.Logging.Service, "VOXPILOT_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "VOXPILOT_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "VOXPILOT_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "VOXPILOT_BREAKER_TIMEOUT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Usage.DailyAILimit < 1 {
		return errors.New("usage.daily_ai_limit must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Anthropic.MaxTokens < 1 {
		return errors.New("anthropic.max_tokens must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

// Package config provides hierarchical configuration loading for voxpilot.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the voxpilot core service.
type Config struct {
	Server    Server    `yaml:"server"`
	Anthropic Anthropic `yaml:"anthropic"`
	Whisper   Whisper   `yaml:"whisper"`
	Usage     Usage     `yaml:"usage"`
	NATS      NATS      `yaml:"nats"`
	Cache     Cache     `yaml:"cache"`
	MCP       MCP       `yaml:"mcp"`
	Logging   Logging   `yaml:"logging"`
	Breaker   Breaker   `yaml:"breaker"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Anthropic holds AI-enhancement service configuration. An empty APIKey
// disables enhancement: the pipeline runs rule-based only.
type Anthropic struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Whisper holds speech-to-text service configuration. An empty URL disables
// the voice path.
type Whisper struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Usage holds daily quota configuration.
type Usage struct {
	DailyAILimit int `yaml:"daily_ai_limit"`
}

// NATS holds event publishing configuration. An empty URL disables events.
type NATS struct {
	URL string `yaml:"url"`
}

// Cache holds composed-prompt cache configuration.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	TTL       time.Duration `yaml:"ttl"`
}

// MCP holds Model Context Protocol server configuration. An empty Addr
// disables the MCP surface.
type MCP struct {
	Addr string `yaml:"addr"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds circuit breaker configuration for external service calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "3939",
			CORSOrigin: "http://localhost:5173",
		},
		Anthropic: Anthropic{
			BaseURL:   "https://api.anthropic.com",
			Model:     "claude-3-haiku-20240307",
			MaxTokens: 1000,
			Timeout:   10 * time.Second,
		},
		Whisper: Whisper{
			Model:   "whisper-1",
			Timeout: 30 * time.Second,
		},
		Usage: Usage{
			DailyAILimit: 30,
		},
		Cache: Cache{
			MaxSizeMB: 16,
			TTL:       5 * time.Minute,
		},
		Logging: Logging{
			Level:   "info",
			Service: "voxpilot-core",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
	}
}

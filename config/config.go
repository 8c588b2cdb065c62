// Package config loads the YAML configuration file driving the CLI and
// server, layering file values over built-in defaults and environment
// variables for credentials.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML support for strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultSystemPrompt seeds new sessions unless overridden.
const DefaultSystemPrompt = "You are a helpful financial assistant. Use the available calculators " +
	"for any numeric projection instead of estimating, and explain the results in plain language."

// Supported model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config holds the complete configuration for the chat service.
type Config struct {
	Model struct {
		Provider     string   `yaml:"provider"`
		Name         string   `yaml:"name"`
		APIKey       string   `yaml:"api_key"`
		SystemPrompt string   `yaml:"system_prompt"`
		Timeout      Duration `yaml:"timeout"`
	} `yaml:"model"`

	Orchestration struct {
		EmptyRetryLimit    int      `yaml:"empty_retry_limit"`
		MaxToolParallelism int      `yaml:"max_tool_parallelism"`
		ToolTimeout        Duration `yaml:"tool_timeout"`
		EventBufferSize    int      `yaml:"event_buffer_size"`
	} `yaml:"orchestration"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}

	cfg.Model.Provider = ProviderOpenAI
	cfg.Model.Name = "gpt-4o"
	cfg.Model.SystemPrompt = DefaultSystemPrompt
	cfg.Model.Timeout = Duration(60 * time.Second)

	cfg.Orchestration.EmptyRetryLimit = 3
	cfg.Orchestration.MaxToolParallelism = 4
	cfg.Orchestration.ToolTimeout = Duration(10 * time.Second)
	cfg.Orchestration.EventBufferSize = 64

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8080

	return cfg
}

// Load reads the configuration file at path over the defaults. An empty path
// returns the defaults directly. Credentials fall back to the provider's
// conventional environment variable when not set in the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.Model.APIKey == "" {
		switch cfg.Model.Provider {
		case ProviderOpenAI:
			cfg.Model.APIKey = os.Getenv("OPENAI_API_KEY")
		case ProviderAnthropic:
			cfg.Model.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) validate() error {
	switch c.Model.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}

	if c.Model.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.Orchestration.EmptyRetryLimit < 0 {
		return fmt.Errorf("empty_retry_limit must not be negative")
	}
	if c.Orchestration.MaxToolParallelism < 1 {
		return fmt.Errorf("max_tool_parallelism must be at least 1")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	return nil
}

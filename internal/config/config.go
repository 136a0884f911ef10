package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Completion  CompletionConfig  `yaml:"completion"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Summary     SummaryConfig     `yaml:"summary"`
	Retry       RetryConfig       `yaml:"retry"`
	Performance PerformanceConfig `yaml:"performance"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Server      ServerConfig      `yaml:"server"`
}

type CompletionConfig struct {
	Provider       string        `yaml:"provider"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	APIKeyEnv      string        `yaml:"api_key_env"`
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Command        CommandConfig `yaml:"command"`
}

// CommandConfig describes a local binary used as the completion backend.
// The preamble and transcript text are written to its stdin.
type CommandConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args"`
}

type ChunkingConfig struct {
	MaxSize   int      `yaml:"max_size"`
	Policy    string   `yaml:"policy"`
	Format    string   `yaml:"format"`
	Questions []string `yaml:"questions"`
}

type SummaryConfig struct {
	Words int `yaml:"words"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type OutputConfig struct {
	Docx bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderCommand = "command"

	PolicyCharacters = "characters"
	PolicyTokens     = "tokens"

	FormatText = "text"
	FormatJSON = "json"
)

// Default returns the configuration used when a key is absent from config.yaml.
func Default() Config {
	return Config{
		Completion: CompletionConfig{
			Provider:       ProviderOpenAI,
			Model:          "gpt-3.5-turbo",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 60,
		},
		Chunking: ChunkingConfig{
			MaxSize: 4096,
			Policy:  PolicyCharacters,
			Format:  FormatText,
		},
		Summary: SummaryConfig{
			Words: 100,
		},
		Retry: RetryConfig{
			MaxAttempts:    1,
			InitialBackoff: 2 * time.Second,
		},
		Performance: PerformanceConfig{
			MaxConcurrent: 1,
		},
		Paths: PathsConfig{
			Input:    "data/input",
			Output:   "data/output",
			Archived: "data/archived",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Completion.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.Completion.APIKeyEnv == "" {
			return fmt.Errorf("completion.api_key_env is required for provider %s", c.Completion.Provider)
		}
	case ProviderCommand:
		if c.Completion.Command.Binary == "" {
			return fmt.Errorf("completion.command.binary is required for provider command")
		}
	default:
		return fmt.Errorf("completion.provider %q is not supported", c.Completion.Provider)
	}
	if c.Completion.Model == "" {
		return fmt.Errorf("completion.model is required")
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return fmt.Errorf("completion.temperature must be within [0, 2]")
	}
	if c.Chunking.MaxSize <= 0 {
		return fmt.Errorf("chunking.max_size must be positive")
	}
	if c.Chunking.Policy != PolicyCharacters && c.Chunking.Policy != PolicyTokens {
		return fmt.Errorf("chunking.policy %q is not supported", c.Chunking.Policy)
	}
	if c.Chunking.Format != FormatText && c.Chunking.Format != FormatJSON {
		return fmt.Errorf("chunking.format %q is not supported", c.Chunking.Format)
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Completion.TimeoutSeconds <= 0 {
		c.Completion.TimeoutSeconds = 60
	}
	if c.Summary.Words <= 0 {
		c.Summary.Words = 100
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 1
	}
	if c.Retry.InitialBackoff <= 0 {
		c.Retry.InitialBackoff = 2 * time.Second
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	return nil
}

// Timeout is the per-call deadline for the completion backend.
func (c CompletionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

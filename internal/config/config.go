package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppInfo corresponds to the 'app' section with basic application information.
type AppInfo struct {
	Name        string `yaml:"name"`        // Application name
	Version     string `yaml:"version"`     // Application version
	Environment string `yaml:"environment"` // Runtime environment (e.g. "development", "production")
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"` // Listen address (e.g. ":8080")
}

// LoggerConfig defines the logger settings.
type LoggerConfig struct {
	Level string `yaml:"level"` // Log level (e.g. "info", "debug", "warn", "error")
}

// OpenAIConfig defines the OpenAI API credentials and model names.
type OpenAIConfig struct {
	APIKey         string `yaml:"apiKey"`         // API key; overridden by OPENAI_API_KEY if set
	EmbeddingModel string `yaml:"embeddingModel"` // Embedding model name
	ChatModel      string `yaml:"chatModel"`      // Chat completion model name
}

// ChunkingConfig defines the token budgets for document chunking.
type ChunkingConfig struct {
	ChunkSize         int  `yaml:"chunkSize"`         // Maximum tokens per chunk
	ChunkOverlap      int  `yaml:"chunkOverlap"`      // Token budget for inter-chunk overlap
	PreserveStructure bool `yaml:"preserveStructure"` // Keep section context when splitting structured files
}

// UploadConfig defines where uploaded files are spooled before extraction.
type UploadConfig struct {
	Dir string `yaml:"dir"` // Temporary directory; defaults to the OS temp dir
}

// AppConfig is the root structure of the YAML configuration file.
type AppConfig struct {
	App      AppInfo        `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Upload   UploadConfig   `yaml:"upload"`
}

// LoadConfig reads and parses the YAML configuration file at the given path.
// A .env file in the working directory is loaded first so that the
// OPENAI_API_KEY environment variable can override the configured key.
func LoadConfig(path string) (*AppConfig, error) {
	// Missing .env is fine; environment variables may be set directly.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o"
	}
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = 1000
	}
	if c.Chunking.ChunkOverlap <= 0 {
		c.Chunking.ChunkOverlap = 200
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = os.TempDir()
	}
}

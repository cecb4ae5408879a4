// Package config loads repolens settings from a YAML file and
// REPOLENS_* environment variables, with sensible defaults for a local
// Ollama setup.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Workers   int             `mapstructure:"workers"`
}

// OllamaConfig holds Ollama-related configuration.
type OllamaConfig struct {
	Host           string `mapstructure:"host"`
	ChatModel      string `mapstructure:"chat_model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	Timeout        int    `mapstructure:"timeout"` // seconds
}

// ChunkingConfig holds the windowed-chunking parameters and the
// directory exclusion list.
type ChunkingConfig struct {
	ChunkSize   int      `mapstructure:"chunk_size"`
	CodeOverlap int      `mapstructure:"code_overlap"`
	DocOverlap  int      `mapstructure:"doc_overlap"`
	ExcludeDirs []string `mapstructure:"exclude_dirs"`
}

// RetrievalConfig holds retrieval parameters.
type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			Host:           "http://localhost:11434",
			ChatModel:      "qwen3:8b",
			EmbeddingModel: "nomic-embed-text",
			Timeout:        120,
		},
		Chunking: ChunkingConfig{
			ChunkSize:   1500,
			CodeOverlap: 200,
			DocOverlap:  250,
			ExcludeDirs: []string{".git", "node_modules", "venv", "env", ".env", "build", "dist"},
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Workers: 0, // 0 means NumCPU
	}
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".repolens"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REPOLENS")
	viper.AutomaticEnv()

	viper.BindEnv("ollama.host", "REPOLENS_OLLAMA_HOST")
	viper.BindEnv("ollama.chat_model", "REPOLENS_OLLAMA_CHAT_MODEL")
	viper.BindEnv("ollama.embedding_model", "REPOLENS_OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("chunking.chunk_size", "REPOLENS_CHUNK_SIZE")
	viper.BindEnv("retrieval.top_k", "REPOLENS_TOP_K")
	viper.BindEnv("workers", "REPOLENS_WORKERS")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine, defaults apply.
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Embedding struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"embedding"`

	Database struct {
		URL            string `yaml:"url"`
		DocumentsTable string `yaml:"documents_table"`
		ChunksTable    string `yaml:"chunks_table"`
	} `yaml:"database"`

	Chunker struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
		MinLength    int `yaml:"min_length"`
	} `yaml:"chunker"`

	Search struct {
		Limit     int     `yaml:"limit"`
		Threshold float32 `yaml:"threshold"`
	} `yaml:"search"`

	Context struct {
		MaxChars int `yaml:"max_chars"`
	} `yaml:"context"`

	Fetcher struct {
		RateLimit      float64 `yaml:"rate_limit"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"fetcher"`
}

// Load reads path, falling back to default locations and then to built-in
// defaults when no file exists. Environment variables override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/chatforge/config.yaml"),
			"/etc/chatforge/config.yaml",
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Embedding.Model == "" {
		config.Embedding.Model = "embedding-001"
	}

	if config.Database.DocumentsTable == "" {
		config.Database.DocumentsTable = "documents"
	}
	if config.Database.ChunksTable == "" {
		config.Database.ChunksTable = "chunks"
	}

	if config.Chunker.ChunkSize == 0 {
		config.Chunker.ChunkSize = 1000
	}
	if config.Chunker.ChunkOverlap == 0 {
		config.Chunker.ChunkOverlap = 200
	}
	if config.Chunker.MinLength == 0 {
		config.Chunker.MinLength = 50
	}

	if config.Search.Limit == 0 {
		config.Search.Limit = 5
	}
	if config.Search.Threshold == 0 {
		config.Search.Threshold = 0.5
	}

	if config.Context.MaxChars == 0 {
		config.Context.MaxChars = 2500
	}

	if config.Fetcher.RateLimit == 0 {
		config.Fetcher.RateLimit = 2.0
	}
	if config.Fetcher.TimeoutSeconds == 0 {
		config.Fetcher.TimeoutSeconds = 30
	}
}

func mergeWithEnv(config *Config) {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.Embedding.APIKey = key
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}

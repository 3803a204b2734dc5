// Package config loads the pipeline configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the full pipeline configuration.
type Config struct {
	TickerFile string `yaml:"ticker_file"`
	DataDir    string `yaml:"data_dir"`
	UserAgent  string `yaml:"user_agent"`
	Period     string `yaml:"period"` // optional filing period override

	Chunk     ChunkConfig     `yaml:"chunk"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Predict   PredictConfig   `yaml:"predict"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkConfig controls text windowing.
type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig selects the embedding model and vector width.
type EmbeddingConfig struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// PredictConfig controls the forecast horizon.
type PredictConfig struct {
	Horizon int `yaml:"horizon"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TickerFile: "tickers.csv",
		DataDir:    "data",
		Chunk:      ChunkConfig{Size: 1000, Overlap: 200},
		Embedding:  EmbeddingConfig{Model: "gemini-embedding-001", Dimensions: 1536},
		Predict:    PredictConfig{Horizon: 5},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file, fills unset fields with defaults and
// applies environment overrides. An empty path yields the defaults
// plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		applyDefaults(cfg)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyDefaults backfills fields the YAML left at zero.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.TickerFile == "" {
		cfg.TickerFile = def.TickerFile
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Chunk.Size == 0 {
		cfg.Chunk.Size = def.Chunk.Size
	}
	if cfg.Chunk.Overlap == 0 {
		cfg.Chunk.Overlap = def.Chunk.Overlap
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = def.Embedding.Model
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = def.Embedding.Dimensions
	}
	if cfg.Predict.Horizon == 0 {
		cfg.Predict.Horizon = def.Predict.Horizon
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnv maps environment variables onto config fields. The SEC
// contact string in particular should come from the environment in
// production.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SEC_EDGAR_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("TICKER_FILE"); v != "" {
		cfg.TickerFile = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Chunk.Size <= 0 {
		return fmt.Errorf("chunk.size must be positive, got %d", c.Chunk.Size)
	}
	if c.Chunk.Overlap < 0 || c.Chunk.Overlap >= c.Chunk.Size {
		return fmt.Errorf("chunk.overlap must be in [0, chunk.size), got %d", c.Chunk.Overlap)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Predict.Horizon <= 0 {
		return fmt.Errorf("predict.horizon must be positive, got %d", c.Predict.Horizon)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

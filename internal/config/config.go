package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SourceConfig is one group of source files sharing a kind label.
type SourceConfig struct {
	Kind  string   `yaml:"kind" toml:"kind"`
	Paths []string `yaml:"paths" toml:"paths"`
}

// EncoderConfig configures TF-IDF tokenization.
type EncoderConfig struct {
	MinTokenLength int    `yaml:"min_token_length" toml:"min_token_length"`
	Stopwords      string `yaml:"stopwords" toml:"stopwords"`
}

// CorpusConfig configures how duplicate questions are handled.
type CorpusConfig struct {
	Duplicates string `yaml:"duplicates" toml:"duplicates"`
}

// DefaultThreshold applies when selector.threshold is unset or outside [0,1].
const DefaultThreshold = 0.5

// SelectorConfig configures answer selection.
// Threshold is a pointer so an explicit 0 survives defaulting.
type SelectorConfig struct {
	Threshold   *float64 `yaml:"threshold,omitempty" toml:"threshold,omitempty"`
	SimilarTopK int      `yaml:"similar_top_k" toml:"similar_top_k"`
}

// ThresholdValue returns the configured threshold, or DefaultThreshold when unset.
func (s SelectorConfig) ThresholdValue() float64 {
	if s.Threshold == nil {
		return DefaultThreshold
	}
	return *s.Threshold
}

// IndexConfig selects where the trained index is persisted.
type IndexConfig struct {
	Backend      string `yaml:"backend" toml:"backend"`
	Path         string `yaml:"path" toml:"path"`
	KeyBySources bool   `yaml:"key_by_sources" toml:"key_by_sources"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Sources  []SourceConfig `yaml:"sources" toml:"sources"`
	Encoder  EncoderConfig  `yaml:"encoder" toml:"encoder"`
	Corpus   CorpusConfig   `yaml:"corpus" toml:"corpus"`
	Selector SelectorConfig `yaml:"selector" toml:"selector"`
	Index    IndexConfig    `yaml:"index" toml:"index"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Files ending in .toml are parsed as TOML, everything else as YAML.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./qaindex.yaml first, then ~/.config/qaindex/config.yaml.
// If neither exists, it writes defaults to ~/.config/qaindex/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "qaindex.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qaindex", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Sources: []SourceConfig{
			{Kind: "table", Paths: []string{filepath.Join("datasource", "tables", "*.json")}},
			{Kind: "infoblock", Paths: []string{filepath.Join("datasource", "infoblocks", "*.json")}},
		},
		Encoder:  EncoderConfig{MinTokenLength: 2, Stopwords: "none"},
		Corpus:   CorpusConfig{Duplicates: "replace"},
		Selector: SelectorConfig{Threshold: float64Ptr(DefaultThreshold), SimilarTopK: 3},
		Index:    IndexConfig{Backend: "file", Path: "trained_index.gob"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Encoder.MinTokenLength == 0 {
		cfg.Encoder.MinTokenLength = 2
	}
	if cfg.Encoder.Stopwords == "" {
		cfg.Encoder.Stopwords = "none"
	}
	if cfg.Corpus.Duplicates == "" {
		cfg.Corpus.Duplicates = "replace"
	}
	if th := cfg.Selector.Threshold; th == nil || *th < 0 || *th > 1 {
		cfg.Selector.Threshold = float64Ptr(DefaultThreshold)
	}
	if cfg.Selector.SimilarTopK == 0 {
		cfg.Selector.SimilarTopK = 3
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "file"
	}
	if cfg.Index.Path == "" {
		if cfg.Index.Backend == "sqlite" {
			cfg.Index.Path = "trained_index.db"
		} else {
			cfg.Index.Path = "trained_index.gob"
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// applyEnvOverrides lets QAINDEX_* variables override file values.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("QAINDEX_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QAINDEX_INDEX_PATH"); v != "" {
		cfg.Index.Path = v
	}
	if v := os.Getenv("QAINDEX_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.Selector.Threshold = float64Ptr(f)
		}
	}
}

func float64Ptr(v float64) *float64 { return &v }

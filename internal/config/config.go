package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all settings for a run. Values are resolved once at startup,
// later sources win: defaults, .env, universal-parser.yaml, CLI flags.
type Config struct {
	RepoPath  string `yaml:"repo"`
	OutputDir string `yaml:"out"`

	Concurrency int `yaml:"concurrency"`

	LLMModel    string        `yaml:"llm_model"`
	LLMBaseURL  string        `yaml:"llm_base_url"`
	LLMAPIKey   string        `yaml:"-"`
	LLMTimeout  time.Duration `yaml:"llm_timeout"`
	MaxAttempts int           `yaml:"max_attempts"`

	SummaryLines int    `yaml:"summary_lines"`
	DBPath       string `yaml:"db"`

	IncludePatterns []string `yaml:"include"`
	ExcludePatterns []string `yaml:"exclude"`

	Verbose bool `yaml:"verbose"`
}

// ConfigFileName is looked up in the repository root and the working directory.
const ConfigFileName = "universal-parser.yaml"

// Default returns the baseline configuration before any overrides.
func Default() Config {
	return Config{
		RepoPath:     ".",
		OutputDir:    "graph-output",
		Concurrency:  runtime.NumCPU(),
		LLMModel:     "gpt-4o-mini",
		LLMTimeout:   2 * time.Minute,
		MaxAttempts:  3,
		SummaryLines: 120,
	}
}

// Load resolves the configuration from defaults, a .env file in the working
// directory, process env, and an optional universal-parser.yaml. CLI flags
// are applied by the caller on top of the result.
func Load() (Config, error) {
	cfg := Default()

	// Missing .env is fine; malformed is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	path := ConfigFileName
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filepath.Join(cfg.RepoPath, ConfigFileName)
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// Env wins over the yaml file for credentials and endpoints.
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLMAPIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLMBaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLMModel = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LLMTimeout = d
		}
	}
	if v := os.Getenv("MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
}

// Validate checks the resolved configuration before any pipeline starts.
func (c Config) Validate() error {
	if c.RepoPath == "" {
		return fmt.Errorf("repository path is required")
	}
	info, err := os.Stat(c.RepoPath)
	if err != nil {
		return fmt.Errorf("repository path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository path %s is not a directory", c.RepoPath)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.SummaryLines <= 0 {
		return fmt.Errorf("summary lines must be positive, got %d", c.SummaryLines)
	}
	return nil
}

// LLMEnabled reports whether the semantic normalizer may call out to a model.
// Without a key the rule-based fallback handles every file.
func (c Config) LLMEnabled() bool {
	return c.LLMAPIKey != ""
}

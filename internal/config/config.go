// Package config provides configuration loading and validation for the
// recommender service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds every tunable of the service. Values come from a JSON file,
// environment variables, or CLI flags; later sources win.
type Config struct {
	// APIKey is the Gemini API key.
	APIKey string `json:"api_key,omitempty" validate:"required"`
	// CatalogPath is the assessment catalog JSON file.
	CatalogPath string `json:"catalog_path,omitempty" validate:"required"`
	// DatabaseURL is the optional PostgreSQL connection URL for session
	// persistence. Empty disables persistence.
	DatabaseURL string `json:"database_url,omitempty"`
	// Port is the HTTP listen port.
	Port int `json:"port,omitempty" validate:"gte=1,lte=65535"`

	// Pipeline knobs.
	TopK                      int     `json:"top_k,omitempty" validate:"gte=0"`
	SelectMin                 int     `json:"select_min,omitempty" validate:"gte=0"`
	SelectMax                 int     `json:"select_max,omitempty" validate:"gte=0,gtefield=SelectMin"`
	BalanceCapFraction        float64 `json:"balance_cap_fraction,omitempty" validate:"gte=0,lte=1"`
	EmbeddingBatchSize        int     `json:"embedding_batch_size,omitempty" validate:"gte=0"`
	IntentConfidenceThreshold float64 `json:"intent_confidence_threshold,omitempty" validate:"gte=0,lte=1"`

	// Behavior.
	UseBrowser bool `json:"use_browser,omitempty"` // headless browser fallback for SPA job boards
	Verbose    bool `json:"verbose,omitempty"`
}

var validate = validator.New()

// Defaults returns the standard configuration.
func Defaults() Config {
	return Config{
		Port:                      8000,
		TopK:                      15,
		SelectMin:                 5,
		SelectMax:                 7,
		BalanceCapFraction:        0.5,
		EmbeddingBatchSize:        10,
		IntentConfidenceThreshold: 0.4,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Call
// godotenv.Load beforehand to pick up a .env file.
func FromEnv() Config {
	cfg := Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        envInt("PORT"),

		TopK:                      envInt("RAG_TOP_K"),
		SelectMin:                 envInt("RAG_FINAL_SELECT_MIN"),
		SelectMax:                 envInt("RAG_FINAL_SELECT_MAX"),
		BalanceCapFraction:        envFloat("BALANCE_CAP_FRACTION"),
		EmbeddingBatchSize:        envInt("EMBEDDING_BATCH_SIZE"),
		IntentConfidenceThreshold: envFloat("INTENT_CONFIDENCE_THRESHOLD"),

		UseBrowser: envBool("USE_BROWSER"),
		Verbose:    envBool("VERBOSE"),
	}
	return cfg
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("config error: field %s failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Bool fields are not merged; flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.SelectMin == 0 {
		result.SelectMin = defaults.SelectMin
	}
	if result.SelectMax == 0 {
		result.SelectMax = defaults.SelectMax
	}
	if result.BalanceCapFraction == 0 {
		result.BalanceCapFraction = defaults.BalanceCapFraction
	}
	if result.EmbeddingBatchSize == 0 {
		result.EmbeddingBatchSize = defaults.EmbeddingBatchSize
	}
	if result.IntentConfidenceThreshold == 0 {
		result.IntentConfidenceThreshold = defaults.IntentConfidenceThreshold
	}

	return result
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envFloat(key string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func envBool(key string) bool {
	v := os.Getenv(key)
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the newsbayes configuration.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Model      ModelConfig      `yaml:"model"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Report     ReportConfig     `yaml:"report"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DataConfig locates the training, held-out and class-name tables.
type DataConfig struct {
	Format      string        `yaml:"format"` // csv, parquet, empty = by file extension
	TrainPath   string        `yaml:"train_path"`
	TestPath    string        `yaml:"test_path"`    // optional: no evaluation without it
	ClassesPath string        `yaml:"classes_path"` // optional: names derived from labels
	LabelBase   *int          `yaml:"label_base"`   // source label of class 0 (default: 1)
	HasHeader   *bool         `yaml:"has_header"`   // CSV header row (default: true)
	Columns     ColumnsConfig `yaml:"columns"`
}

// ColumnsConfig names the dataset columns.
type ColumnsConfig struct {
	Label       string `yaml:"label"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ModelConfig holds classifier settings.
type ModelConfig struct {
	Smoothing      float64 `yaml:"smoothing"` // additive smoothing, 0 = raw frequencies
	FoldDiacritics bool    `yaml:"fold_diacritics"`
}

// EvaluationConfig holds evaluation settings.
type EvaluationConfig struct {
	Workers int `yaml:"workers"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Format string `yaml:"format"` // text, json, yaml
	Output string `yaml:"output"` // file path, empty = stdout
}

// MetricsConfig holds Prometheus export settings.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"` // node_exporter textfile, empty = disabled
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Data.LabelBase == nil {
		base := 1
		c.Data.LabelBase = &base
	}
	if c.Data.HasHeader == nil {
		header := true
		c.Data.HasHeader = &header
	}
	if c.Data.Columns.Label == "" {
		c.Data.Columns.Label = "Class Index"
	}
	if c.Data.Columns.Title == "" {
		c.Data.Columns.Title = "Title"
	}
	if c.Data.Columns.Description == "" {
		c.Data.Columns.Description = "Description"
	}
	if c.Evaluation.Workers <= 0 {
		c.Evaluation.Workers = 1
	}
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Data.TrainPath == "" {
		return fmt.Errorf("data.train_path is required")
	}
	switch c.Data.Format {
	case "", "csv", "parquet":
		// ok
	default:
		return fmt.Errorf("data.format must be \"csv\" or \"parquet\", got %q", c.Data.Format)
	}
	if c.Data.LabelBase != nil && *c.Data.LabelBase < 0 {
		return fmt.Errorf("data.label_base must be >= 0, got %d", *c.Data.LabelBase)
	}
	if c.Model.Smoothing < 0 {
		return fmt.Errorf("model.smoothing must be >= 0, got %g", c.Model.Smoothing)
	}
	switch c.Report.Format {
	case "", "text", "json", "yaml":
		// ok
	default:
		return fmt.Errorf("report.format must be \"text\", \"json\" or \"yaml\", got %q", c.Report.Format)
	}
	return nil
}

// ValidateHTTP checks the settings needed by the serve command.
func (c *Config) ValidateHTTP() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jonathan/resume-builder/internal/types"
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values come from CLI flags, the
// environment or Defaults.
type Config struct {
	// Paths
	Content   string `json:"content,omitempty"`    // Path to the resume content file
	OutputDir string `json:"output_dir,omitempty"` // Directory for the .tex source and the PDF
	Template  string `json:"template,omitempty"`   // Path to a LaTeX template overriding the built-in one
	BaseName  string `json:"base_name,omitempty"`  // File name of the source and PDF, without extension

	// Selection maps a category to the number of entries to keep
	Selection map[string]int `json:"selection,omitempty"`

	// Layout
	Margin float64 `json:"margin,omitempty"` // Page margin in inches on every side

	// Compilation
	Compiler          string `json:"compiler,omitempty"`           // LaTeX compiler executable
	CompileTimeout    string `json:"compile_timeout,omitempty"`    // Go duration, e.g. "30s"
	KeepIntermediates bool   `json:"keep_intermediates,omitempty"` // Keep .aux, .log and .out files
	CountPages        bool   `json:"count_pages,omitempty"`        // Report the page count of the PDF

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for run history
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		OutputDir:      "outputs",
		BaseName:       "resume",
		Margin:         0.4,
		Compiler:       "pdflatex",
		CompileTimeout: "30s",
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Margin < 0 {
		return fmt.Errorf("config error: 'margin' must be non-negative")
	}

	if c.CompileTimeout != "" {
		d, err := time.ParseDuration(c.CompileTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'compile_timeout' %q: %w", c.CompileTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'compile_timeout' must be positive")
		}
	}

	if c.BaseName != "" && (strings.ContainsAny(c.BaseName, `/\`) || strings.HasSuffix(c.BaseName, ".tex")) {
		return fmt.Errorf("config error: 'base_name' must be a bare file name without extension: %s", c.BaseName)
	}

	if _, err := c.SelectionRequest(); err != nil {
		return err
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	if c.Content != "" {
		if _, err := os.Stat(c.Content); os.IsNotExist(err) {
			return fmt.Errorf("config error: content file not found: %s", c.Content)
		}
	}

	return nil
}

// SelectionRequest converts Selection into a typed request. Categories
// without an entry keep all their entries.
func (c *Config) SelectionRequest() (types.SelectionRequest, error) {
	req := make(types.SelectionRequest, len(c.Selection))
	for name, count := range c.Selection {
		category, err := types.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("config error: 'selection': %w", err)
		}
		if count < 0 {
			return nil, fmt.Errorf("config error: 'selection.%s' must be non-negative", name)
		}
		req[category] = count
	}
	return req, nil
}

// Timeout returns CompileTimeout as a duration, or zero when it is unset or
// invalid. Call Validate first to reject invalid values.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.CompileTimeout)
	if err != nil {
		return 0
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer flags over the config file over the environment.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Content == "" {
		result.Content = defaults.Content
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.BaseName == "" {
		result.BaseName = defaults.BaseName
	}
	if result.Compiler == "" {
		result.Compiler = defaults.Compiler
	}
	if result.CompileTimeout == "" {
		result.CompileTimeout = defaults.CompileTimeout
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Selection: per category, the first layer that names it wins
	if len(defaults.Selection) > 0 {
		merged := make(map[string]int, len(result.Selection)+len(defaults.Selection))
		for k, v := range defaults.Selection {
			merged[k] = v
		}
		for k, v := range result.Selection {
			merged[k] = v
		}
		result.Selection = merged
	}

	// Float fields: use default if zero
	if result.Margin == 0 {
		result.Margin = defaults.Margin
	}

	// Bool fields: cannot distinguish unset from false, so true in either wins
	result.KeepIntermediates = result.KeepIntermediates || defaults.KeepIntermediates
	result.CountPages = result.CountPages || defaults.CountPages
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

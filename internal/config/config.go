package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-zakki/internal/dateutil"
	"github.com/alnah/go-zakki/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// DefaultName is the config file looked up when none is given.
const DefaultName = "zakki"

// Field length limits.
const (
	MaxSiteNameLength = 100
	MaxLangLength     = 35 // BCP 47 upper bound in practice
	MaxFooterLength   = 500
	MaxURLLength      = 2048
	MaxWorkers        = 64
)

// Defaults applied by DefaultConfig.
const (
	DefaultSiteName  = "zakki"
	DefaultLang      = "en"
	DefaultSourceDir = "src"
	DefaultOutputDir = "dst"
)

// Config holds all configuration for a site build.
type Config struct {
	SiteName     string          `yaml:"siteName"`
	Lang         string          `yaml:"lang"`
	Footer       string          `yaml:"footer"`
	SourceDir    string          `yaml:"sourceDir"`
	OutputDir    string          `yaml:"outputDir"`
	ThemeDir     string          `yaml:"themeDir"`     // empty = embedded theme only
	RenderDrafts bool            `yaml:"renderDrafts"` // publish pages flagged draft
	Password     string          `yaml:"password"`     // default for crypto pages
	Workers      int             `yaml:"workers"`      // 0 = auto
	DateFormat   string          `yaml:"dateFormat"`   // display format, e.g. "YYYY/MM/DD"
	Exclude      []string        `yaml:"exclude"`      // doublestar globs relative to sourceDir
	Search       SearchConfig    `yaml:"search"`
	Highlight    HighlightConfig `yaml:"highlight"`
	Math         MathConfig      `yaml:"math"`
}

// SearchConfig tunes the per-page Bloom filters.
type SearchConfig struct {
	FalsePositiveRate float64 `yaml:"falsePositiveRate"` // 0 < p < 1
}

// HighlightConfig controls syntax highlighting of code blocks that carry no
// highlight rules.
type HighlightConfig struct {
	Syntax bool   `yaml:"syntax"`
	Style  string `yaml:"style"` // chroma style name
}

// MathConfig locates the KaTeX distribution pages with math load.
type MathConfig struct {
	KaTeXURL string `yaml:"katexURL"`
}

// Validate checks value ranges and field lengths.
// Called automatically by LoadConfig, but available for callers that build
// or override a Config themselves.
func (c *Config) Validate() error {
	if err := validateFieldLength("siteName", c.SiteName, MaxSiteNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("lang", c.Lang, MaxLangLength); err != nil {
		return err
	}
	if err := validateFieldLength("footer", c.Footer, MaxFooterLength); err != nil {
		return err
	}
	if err := validateFieldLength("math.katexURL", c.Math.KaTeXURL, MaxURLLength); err != nil {
		return err
	}

	if strings.TrimSpace(c.SourceDir) == "" {
		return fmt.Errorf("%w: sourceDir: required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: outputDir: required", ErrInvalidConfig)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}
	if p := c.Search.FalsePositiveRate; p != 0 && (p <= 0 || p >= 1) {
		return fmt.Errorf("%w: search.falsePositiveRate: must be between 0 and 1 exclusive, got %g", ErrInvalidConfig, p)
	}
	if c.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.DateFormat); err != nil {
			return fmt.Errorf("%w: dateFormat: %w", ErrInvalidConfig, err)
		}
	}
	for i, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: exclude[%d]: bad pattern %q", ErrInvalidConfig, i, pattern)
		}
	}
	if m := c.Math.KaTeXURL; m != "" && !strings.HasPrefix(m, "https://") && !strings.HasPrefix(m, "http://") && !strings.HasPrefix(m, "/") {
		return fmt.Errorf("%w: math.katexURL: must be an http(s) URL or an absolute path", ErrInvalidConfig)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		SiteName:   DefaultSiteName,
		Lang:       DefaultLang,
		SourceDir:  DefaultSourceDir,
		OutputDir:  DefaultOutputDir,
		DateFormat: dateutil.DefaultDateFormat,
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or a YAML extension, it's treated
// as a file path. Otherwise it's a name searched in the current directory.
// Keys the file omits keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for name.yaml then name.yml in the current
// directory.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions))

	for _, ext := range extensions {
		path := name + ext
		if fileExists(path) {
			return path, nil
		}
		tried = append(tried, path)
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Sample returns a commented zakki.yaml for `zakki init`.
func Sample() string {
	return `# Site configuration.
siteName: ` + DefaultSiteName + `
lang: ` + DefaultLang + `
footer: ""
sourceDir: ` + DefaultSourceDir + `
outputDir: ` + DefaultOutputDir + `
# themeDir: theme       # overrides for static/ and templates/
renderDrafts: false
# password: ""          # default password of crypto pages
workers: 0              # 0 = auto
dateFormat: ` + dateutil.DefaultDateFormat + `
exclude: []             # globs relative to sourceDir, e.g. "**/_*.md"
search:
  falsePositiveRate: 0.01
highlight:
  syntax: false
  style: github
math:
  katexURL: ""          # empty = jsDelivr CDN
`
}

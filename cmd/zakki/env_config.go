package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-zakki/internal/config"
)

// envPrefix starts every variable zakki reads.
const envPrefix = "ZAKKI_"

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

// Environment variable names.
const (
	envConfigPath   = "ZAKKI_CONFIG"
	envPassword     = "ZAKKI_PASSWORD"
	envSourceDir    = "ZAKKI_SOURCE_DIR"
	envOutputDir    = "ZAKKI_OUTPUT_DIR"
	envThemeDir     = "ZAKKI_THEME_DIR"
	envSiteName     = "ZAKKI_SITE_NAME"
	envWorkers      = "ZAKKI_WORKERS"
	envRenderDrafts = "ZAKKI_RENDER_DRAFTS"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string // ZAKKI_CONFIG: config file name or path
	Password     string // ZAKKI_PASSWORD: default password of crypto pages
	SourceDir    string // ZAKKI_SOURCE_DIR
	OutputDir    string // ZAKKI_OUTPUT_DIR
	ThemeDir     string // ZAKKI_THEME_DIR
	SiteName     string // ZAKKI_SITE_NAME
	Workers      int    // ZAKKI_WORKERS: parallel workers
	RenderDrafts *bool  // ZAKKI_RENDER_DRAFTS: nil when unset or invalid
}

// knownEnvVars lists valid ZAKKI_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath:   true,
	envPassword:     true,
	envSourceDir:    true,
	envOutputDir:    true,
	envThemeDir:     true,
	envSiteName:     true,
	envWorkers:      true,
	envRenderDrafts: true,
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized ZAKKI_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv(envConfigPath),
		Password:   os.Getenv(envPassword),
		SourceDir:  os.Getenv(envSourceDir),
		OutputDir:  os.Getenv(envOutputDir),
		ThemeDir:   os.Getenv(envThemeDir),
		SiteName:   os.Getenv(envSiteName),
	}

	// Parse int for workers
	if workers := os.Getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if drafts := os.Getenv(envRenderDrafts); drafts != "" {
		if b, err := strconv.ParseBool(drafts); err == nil {
			cfg.RenderDrafts = &b
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized ZAKKI_* variables.
// Helps catch typos like ZAKKI_OUTPUT instead of ZAKKI_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; flags are applied afterwards,
// so: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Password != "" {
		cfg.Password = env.Password
	}
	if env.SourceDir != "" {
		cfg.SourceDir = env.SourceDir
	}
	if env.OutputDir != "" {
		cfg.OutputDir = env.OutputDir
	}
	if env.ThemeDir != "" {
		cfg.ThemeDir = env.ThemeDir
	}
	if env.SiteName != "" {
		cfg.SiteName = env.SiteName
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.RenderDrafts != nil {
		cfg.RenderDrafts = *env.RenderDrafts
	}
}

package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// - loadDotEnv: we test that a file fills unset variables, keeps set ones
//   and that a missing file is ignored.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-zakki/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv(envConfigPath, "/path/to/site.yaml")
		t.Setenv(envPassword, "secret")
		t.Setenv(envSourceDir, "/in")
		t.Setenv(envOutputDir, "/out")
		t.Setenv(envThemeDir, "/theme")
		t.Setenv(envSiteName, "Notes")
		t.Setenv(envWorkers, "3")
		t.Setenv(envRenderDrafts, "true")

		cfg := loadEnvConfig()

		if cfg.ConfigPath != "/path/to/site.yaml" {
			t.Errorf("ConfigPath = %q", cfg.ConfigPath)
		}
		if cfg.Password != "secret" || cfg.SourceDir != "/in" || cfg.OutputDir != "/out" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.ThemeDir != "/theme" || cfg.SiteName != "Notes" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
		if cfg.RenderDrafts == nil || !*cfg.RenderDrafts {
			t.Errorf("RenderDrafts = %v, want true", cfg.RenderDrafts)
		}
	})

	t.Run("invalid numbers are ignored", func(t *testing.T) {
		t.Setenv(envWorkers, "-2")
		t.Setenv(envRenderDrafts, "maybe")

		cfg := loadEnvConfig()

		if cfg.Workers != 0 {
			t.Errorf("Workers = %d, want 0", cfg.Workers)
		}
		if cfg.RenderDrafts != nil {
			t.Errorf("RenderDrafts = %v, want nil", *cfg.RenderDrafts)
		}
	})

	t.Run("drafts can be disabled", func(t *testing.T) {
		t.Setenv(envRenderDrafts, "0")

		cfg := loadEnvConfig()

		if cfg.RenderDrafts == nil || *cfg.RenderDrafts {
			t.Error("RenderDrafts should be an explicit false")
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("ZAKKI_PASWORD", "typo")
	t.Setenv(envPassword, "known")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "ZAKKI_PASWORD") {
		t.Errorf("expected warning for ZAKKI_PASWORD, got %q", out)
	}
	if strings.Contains(out, envPassword+" ") {
		t.Errorf("known variable should not warn, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()

		drafts := true
		cfg := config.DefaultConfig()
		cfg.OutputDir = "from-file"
		applyEnvConfig(&envConfig{OutputDir: "from-env", Workers: 2, RenderDrafts: &drafts, Password: "pw"}, cfg)

		if cfg.OutputDir != "from-env" {
			t.Errorf("OutputDir = %q, want from-env", cfg.OutputDir)
		}
		if cfg.Workers != 2 || !cfg.RenderDrafts || cfg.Password != "pw" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("unset values keep the file", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.SiteName = "From File"
		cfg.RenderDrafts = true
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.SiteName != "From File" || !cfg.RenderDrafts {
			t.Errorf("cfg = %+v, want file values kept", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadDotEnv
// ---------------------------------------------------------------------------

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("loadDotEnv() error = %v, want nil", err)
		}
	})

	t.Run("fills unset variables only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("ZAKKI_SITE_NAME=Dotenv\nZAKKI_THEME_DIR=dotenv-theme\n"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Setenv(envSiteName, "restore")
		os.Unsetenv(envSiteName)
		t.Setenv(envThemeDir, "from-shell")

		if err := loadDotEnv(path); err != nil {
			t.Fatalf("loadDotEnv() error = %v", err)
		}
		if got := os.Getenv(envSiteName); got != "Dotenv" {
			t.Errorf("%s = %q, want Dotenv", envSiteName, got)
		}
		if got := os.Getenv(envThemeDir); got != "from-shell" {
			t.Errorf("%s = %q, shell value should win", envThemeDir, got)
		}
	})
}

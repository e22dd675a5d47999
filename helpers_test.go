package zakki

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-zakki/internal/config"
)

// testConfig returns a config whose source and output directories live in
// a fresh temporary directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SiteName = "Test Site"
	cfg.SourceDir = filepath.Join(dir, "src")
	cfg.OutputDir = filepath.Join(dir, "dst")
	if err := os.MkdirAll(cfg.SourceDir, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return cfg
}

// writeSource writes a file below the source directory.
func writeSource(t *testing.T, cfg *config.Config, rel, content string) string {
	t.Helper()

	path := filepath.Join(cfg.SourceDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// readOutput reads a file below the output directory.
func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading output %s: %v", rel, err)
	}
	return string(data)
}

// page builds a document with front matter.
func page(header, body string) string {
	return "---\n" + strings.TrimSpace(header) + "\n---\n\n" + body
}

func docFor(cfg *config.Config, rel string) Document {
	out := strings.TrimSuffix(rel, ".md") + ".html"
	return Document{
		Source: filepath.Join(cfg.SourceDir, filepath.FromSlash(rel)),
		Output: filepath.Join(cfg.OutputDir, filepath.FromSlash(out)),
		Path:   out,
	}
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

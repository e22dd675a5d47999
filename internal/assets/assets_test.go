package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Export(NewEmbeddedLoader(), dir); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// The exported theme must read back identically.
	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	for _, name := range StaticFiles {
		want, _ := LoadStatic(name)
		got, err := loader.LoadStatic(name)
		if err != nil {
			t.Fatalf("LoadStatic(%q) error = %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("exported %s differs from embedded", name)
		}
	}
	for _, name := range TemplateNames {
		want, _ := LoadTemplate(name)
		got, err := loader.LoadTemplate(name)
		if err != nil {
			t.Fatalf("LoadTemplate(%q) error = %v", name, err)
		}
		if got != want {
			t.Errorf("exported %s differs from embedded", name)
		}
	}
}

func TestExport_UnwritableDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "theme")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("failed to write blocker: %v", err)
	}

	if err := Export(NewEmbeddedLoader(), blocker); err == nil {
		t.Error("Export() into a file path should fail")
	}
}

package assets

import (
	"fmt"
	"path/filepath"

	"github.com/alnah/go-zakki/internal/fileutil"
)

// Theme directory layout.
const (
	StaticDir    = "static"
	TemplatesDir = "templates"
)

// Static files copied to the root of every built site.
var StaticFiles = []string{"style.css", "script.js", "segmenter.js", "theme.js"}

// Page templates, parsed together so they can share definitions.
var TemplateNames = []string{"partials", "page", "crypto", "index"}

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStatic loads a static file by name using the default embedded loader.
func LoadStatic(name string) ([]byte, error) {
	return defaultLoader.LoadStatic(name)
}

// LoadTemplate loads a template by name using the default embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// Export writes every static file and template served by loader into dir,
// laid out as a theme directory that FilesystemLoader can read back.
func Export(loader AssetLoader, dir string) error {
	for _, name := range StaticFiles {
		content, err := loader.LoadStatic(name)
		if err != nil {
			return err
		}
		if err := fileutil.WriteFile(filepath.Join(dir, StaticDir, name), content); err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
	}
	for _, name := range TemplateNames {
		content, err := loader.LoadTemplate(name)
		if err != nil {
			return err
		}
		if err := fileutil.WriteFile(filepath.Join(dir, TemplatesDir, name+".html"), []byte(content)); err != nil {
			return fmt.Errorf("exporting %s: %w", name, err)
		}
	}
	return nil
}

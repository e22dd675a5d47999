package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadStatic(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		file        string
		wantErr     error
		wantContain string
	}{
		{name: "stylesheet", file: "style.css", wantContain: "--fg"},
		{name: "main script", file: "script.js", wantContain: "function hitRate"},
		{name: "segmenter", file: "segmenter.js", wantContain: "function segment"},
		{name: "theme switch", file: "theme.js", wantContain: "function setTheme"},
		{name: "nonexistent", file: "missing.js", wantErr: ErrStaticNotFound},
		{name: "traversal", file: "../embedded.go", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStatic(tt.file)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStatic(%q) error = %v, want %v", tt.file, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStatic(%q) unexpected error: %v", tt.file, err)
			}
			if !strings.Contains(string(got), tt.wantContain) {
				t.Errorf("LoadStatic(%q) missing %q", tt.file, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		template    string
		wantErr     error
		wantContain string
	}{
		{name: "partials", template: "partials", wantContain: `{{define "head"}}`},
		{name: "page", template: "page", wantContain: `id="main-content"`},
		{name: "crypto", template: "crypto", wantContain: `data-cypher="{{.Cipher}}"`},
		{name: "index", template: "index", wantContain: `id="card-template"`},
		{name: "nonexistent", template: "missing", wantErr: ErrTemplateNotFound},
		{name: "with extension", template: "page.html", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) unexpected error: %v", tt.template, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadTemplate(%q) missing %q", tt.template, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_ServesEveryListedAsset(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()
	for _, name := range StaticFiles {
		if _, err := loader.LoadStatic(name); err != nil {
			t.Errorf("LoadStatic(%q) error = %v", name, err)
		}
	}
	for _, name := range TemplateNames {
		if _, err := loader.LoadTemplate(name); err != nil {
			t.Errorf("LoadTemplate(%q) error = %v", name, err)
		}
	}
}

package assets

import (
	"embed"
	"fmt"
)

//go:embed static/*
var static embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets from embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStatic loads a static file from embedded assets by file name.
func (e *EmbeddedLoader) LoadStatic(name string) ([]byte, error) {
	if err := ValidateFileName(name); err != nil {
		return nil, err
	}

	content, err := static.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrStaticNotFound, name)
	}

	return content, nil
}

// LoadTemplate loads an HTML template from embedded assets by name.
// The name should not include the .html extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)

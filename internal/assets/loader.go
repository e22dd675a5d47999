package assets

// AssetLoader defines the contract for loading site static files and page
// templates. Implementations may load from embedded assets or a theme
// directory on disk.
type AssetLoader interface {
	// LoadStatic loads a static file by file name (e.g. "style.css").
	// Returns ErrStaticNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStatic(name string) ([]byte, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

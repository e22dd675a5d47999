// Package assets provides the static files and HTML templates of a site.
// Assets can be loaded from embedded files or a custom theme directory.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default theme)
//	    ├── FilesystemLoader  - loads from a theme directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the build. It tries the theme
// directory first and falls back to the embedded theme when an asset is not
// found there, so a theme may override a single file.
//
// # Directory Structure
//
//	{themeDir}/
//	├── static/
//	│   ├── style.css
//	│   ├── script.js        # index page, search, decryption
//	│   ├── segmenter.js     # query tokenizer, loaded on first search
//	│   └── theme.js         # light/dark switch
//	└── templates/
//	    ├── partials.html    # head, header, footer definitions
//	    ├── page.html
//	    ├── crypto.html
//	    └── index.html
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within the
// theme directory.
package assets

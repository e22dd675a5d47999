// Package layout renders pages through the site's HTML templates.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-zakki/internal/assets"
	"github.com/alnah/go-zakki/internal/fileutil"
)

// ErrTemplate indicates a template that failed to parse or execute.
var ErrTemplate = errors.New("template error")

// Stylesheets and scripts every page links, relative to the site root.
var (
	DefaultCSS = []string{"style.css"}
	DefaultJS  = []string{"metadata.js", "script.js", "theme.js"}
)

// Site holds the values shared by every page of a site.
type Site struct {
	Name   string
	Footer string
	Lang   string
}

// Page is the data handed to the page, crypto and index templates.
type Page struct {
	Site

	// PathToRoot is the relative prefix from the page's directory back
	// to the site root, "." at the root.
	PathToRoot string
	Title      string
	Create     string
	Update     string
	Tags       []string
	CSS        []string
	JS         []string
	TOC        template.HTML
	Body       template.HTML

	// Cipher is the encrypted body of a crypto page.
	Cipher string
}

// Layout executes the parsed site templates.
type Layout struct {
	tmpl *template.Template
}

// New parses every template served by loader.
func New(loader assets.AssetLoader) (*Layout, error) {
	root := template.New("site")
	for _, name := range assets.TemplateNames {
		src, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplate, name, err)
		}
	}
	return &Layout{tmpl: root}, nil
}

// Page renders a regular page.
func (l *Layout) Page(p Page) (string, error) {
	return l.execute("page", p)
}

// Crypto renders a page whose body travels encrypted in p.Cipher.
func (l *Layout) Crypto(p Page) (string, error) {
	return l.execute("crypto", p)
}

// Index renders the site index at the root.
func (l *Layout) Index(site Site) (string, error) {
	return l.execute("index", Page{
		Site:       site,
		PathToRoot: ".",
		Title:      site.Name,
		CSS:        AssetPaths(DefaultCSS, nil, "."),
		JS:         AssetPaths(DefaultJS, nil, "."),
	})
}

func (l *Layout) execute(name string, p Page) (string, error) {
	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, name, p); err != nil {
		return "", fmt.Errorf("%w: executing %s: %v", ErrTemplate, name, err)
	}
	return buf.String(), nil
}

// AssetPaths lists defaults followed by extra, each adjusted for a page
// whose path to the root is pathToRoot.
func AssetPaths(defaults, extra []string, pathToRoot string) []string {
	out := make([]string, 0, len(defaults)+len(extra))
	for _, p := range defaults {
		out = append(out, AdjustPath(p, pathToRoot))
	}
	for _, p := range extra {
		out = append(out, AdjustPath(p, pathToRoot))
	}
	return out
}

// AdjustPath prefixes a root-relative asset path with pathToRoot. URLs and
// absolute paths are returned unchanged.
func AdjustPath(p, pathToRoot string) string {
	if fileutil.IsURL(p) || strings.HasPrefix(p, "/") {
		return p
	}
	return strings.TrimSuffix(pathToRoot, "/") + "/" + p
}

package pipeline

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// ChromaStylesheet is the site-relative path of the generated chroma CSS.
const ChromaStylesheet = "chroma.css"

// DefaultChromaStyle is used when no style is configured.
const DefaultChromaStyle = "github"

// ChromaHighlighter highlights code with chroma using CSS classes, so one
// stylesheet serves every page.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

var _ CodeHighlighter = (*ChromaHighlighter)(nil)

// NewChromaHighlighter creates a highlighter for the named chroma style.
// Unknown names fall back to chroma's default style.
func NewChromaHighlighter(style string) *ChromaHighlighter {
	if style == "" {
		style = DefaultChromaStyle
	}
	return &ChromaHighlighter{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight implements CodeHighlighter.
func (h *ChromaHighlighter) Highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", false
	}
	return b.String(), true
}

// Stylesheet implements CodeHighlighter.
func (h *ChromaHighlighter) Stylesheet() string { return ChromaStylesheet }

// WriteCSS writes the stylesheet matching the highlighter's classes.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

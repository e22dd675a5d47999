package pipeline

import (
	"fmt"
	"strings"

	"github.com/alnah/go-zakki/internal/markdown"
)

// DefaultKaTeXURL serves the KaTeX stylesheet and scripts.
const DefaultKaTeXURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist"

// MathRenderer turns TeX into HTML.
type MathRenderer interface {
	RenderMath(tex string, display bool) (string, error)

	// Assets lists the stylesheets and scripts pages with math must load.
	Assets() (css, js []string)
}

// KaTeX emits TeX wrapped in \( \) or \[ \] delimiters for KaTeX's
// auto-render extension, which typesets it in the browser.
type KaTeX struct {
	// BaseURL is the KaTeX dist directory. Empty means DefaultKaTeXURL.
	BaseURL string
}

var _ MathRenderer = KaTeX{}

// RenderMath checks that tex is well formed and returns the escaped span.
func (k KaTeX) RenderMath(tex string, display bool) (string, error) {
	if err := checkTeX(tex); err != nil {
		return "", err
	}
	if display {
		return `<span class="math math-display">\[` + markdown.Escape(tex) + `\]</span>`, nil
	}
	return `<span class="math math-inline">\(` + markdown.Escape(tex) + `\)</span>`, nil
}

// Assets implements MathRenderer.
func (k KaTeX) Assets() (css, js []string) {
	base := strings.TrimSuffix(k.BaseURL, "/")
	if base == "" {
		base = DefaultKaTeXURL
	}
	return []string{base + "/katex.min.css"},
		[]string{base + "/katex.min.js", base + "/contrib/auto-render.min.js"}
}

// checkTeX rejects input KaTeX is certain to fail on: unbalanced braces
// and a dangling backslash. Blank input renders as nothing.
func checkTeX(tex string) error {
	depth := 0
	for i := 0; i < len(tex); i++ {
		switch tex[i] {
		case '\\':
			if i == len(tex)-1 {
				return fmt.Errorf("trailing backslash in %q", tex)
			}
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unexpected '}' in %q", tex)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unclosed '{' in %q", tex)
	}
	return nil
}

// ConvertMath renders inline and display math through the configured
// MathRenderer and registers its assets when the document has any math.
func ConvertMath(events []markdown.Event, c *Context) ([]markdown.Event, error) {
	renderer := c.Options().Math
	if renderer == nil {
		renderer = KaTeX{}
	}

	used := false
	for i := range events {
		e := &events[i]
		if e.Kind != markdown.KindInlineMath && e.Kind != markdown.KindDisplayMath {
			continue
		}
		html, err := renderer.RenderMath(e.Text, e.Kind == markdown.KindDisplayMath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMathRender, err)
		}
		*e = markdown.InlineHTML(html)
		used = true
	}

	if used {
		css, js := renderer.Assets()
		for _, p := range css {
			c.PushCSS(p)
		}
		for _, p := range js {
			c.PushJS(p)
		}
	}
	return events, nil
}

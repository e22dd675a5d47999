package pipeline

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alnah/go-zakki/internal/markdown"
)

// HighlightRule wraps text between a delimiter pair in a styled span inside
// fenced code blocks. Delimiters are regular expression fragments matched
// against the escaped code, within one line; the first group is kept.
//
//	highlight:
//	  - delim: ['\[\[', '\]\]']
//	    style: "background: yellow"
type HighlightRule struct {
	Delim []string `yaml:"delim"`
	Style string   `yaml:"style"`

	re *regexp.Regexp
}

func (r *HighlightRule) compile() error {
	if len(r.Delim) != 2 {
		return errors.New("delim needs exactly two entries")
	}
	if r.Delim[0] == "" || r.Delim[1] == "" {
		return errors.New("delim entries must not be empty")
	}
	re, err := regexp.Compile(r.Delim[0] + "(.*?)" + r.Delim[1])
	if err != nil {
		return fmt.Errorf("delim %q, %q: %w", r.Delim[0], r.Delim[1], err)
	}
	r.re = re
	return nil
}

// Apply wraps every delimited span of code.
func (r *HighlightRule) Apply(code string) string {
	if r.re == nil {
		if err := r.compile(); err != nil {
			return code
		}
	}
	style := strings.ReplaceAll(html.EscapeString(r.Style), "$", "$$")
	return r.re.ReplaceAllString(code, `<span style="`+style+`">${1}</span>`)
}

var codeEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeCode escapes the three characters that matter inside <pre>.
func escapeCode(s string) string { return codeEscaper.Replace(s) }

// CodeHighlighter renders source code as highlighted HTML. ok is false when
// the language is unknown.
type CodeHighlighter interface {
	Highlight(lang, code string) (html string, ok bool)
	Stylesheet() string
}

// HighlightCode escapes fenced code and applies the document's highlight
// rules in order, so a later rule may match markup an earlier one produced.
// Documents without rules are passed to the configured CodeHighlighter.
func HighlightCode(events []markdown.Event, c *Context) ([]markdown.Event, error) {
	rules, err := c.Highlights()
	if err != nil {
		rules = nil
	}
	hl := c.Options().Highlighter
	if len(rules) == 0 && hl == nil {
		return events, nil
	}

	out := make([]markdown.Event, 0, len(events))
	inFenced := false
	for i := 0; i < len(events); i++ {
		e := events[i]
		switch {
		case e.IsStart(markdown.TagCodeBlock) && e.Fenced:
			if len(rules) == 0 {
				if block, end, ok := highlightBlock(hl, events, i); ok {
					out = append(out, block)
					c.PushCSS(hl.Stylesheet())
					i = end
					continue
				}
			}
			inFenced = true
		case e.IsEnd(markdown.TagCodeBlock):
			inFenced = false
		case inFenced && e.Kind == markdown.KindText && len(rules) > 0:
			code := escapeCode(e.Text)
			for j := range rules {
				code = rules[j].Apply(code)
			}
			e = markdown.InlineHTML(code)
		}
		out = append(out, e)
	}
	return out, nil
}

// highlightBlock replaces the fenced block starting at events[start] with
// one HTML event.
func highlightBlock(hl CodeHighlighter, events []markdown.Event, start int) (markdown.Event, int, bool) {
	lang := firstField(events[start].Lang)
	if lang == "" {
		return markdown.Event{}, 0, false
	}
	code, end := plainText(events, start)
	body, ok := hl.Highlight(lang, code)
	if !ok {
		return markdown.Event{}, 0, false
	}
	class := html.EscapeString(lang)
	return markdown.HTML(`<pre class="chroma"><code class="language-` + class + `">` + body + "</code></pre>\n"), end, true
}

func firstField(s string) string {
	if f := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == '{' }); len(f) > 0 {
		return f[0]
	}
	return ""
}

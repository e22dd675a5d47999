package markdown

import (
	"html"
	"strconv"
	"strings"
)

// RenderHTML prints events as an HTML fragment. Text is escaped; HTML and
// InlineHTML events are written verbatim. MetadataBlock content is dropped.
func RenderHTML(events []Event) string {
	p := &printer{}
	p.b.Grow(len(events) * 16)
	for _, e := range events {
		p.event(e)
	}
	return p.b.String()
}

type printer struct {
	b          strings.Builder
	inMetadata bool
	inHead     bool
	inBody     bool
	altDepth   int
	imageTitle string
}

func (p *printer) write(s ...string) {
	for _, v := range s {
		p.b.WriteString(v)
	}
}

func (p *printer) event(e Event) {
	if p.inMetadata {
		if e.IsEnd(TagMetadataBlock) {
			p.inMetadata = false
		}
		return
	}

	// Inside image alt text only the plain text survives.
	if p.altDepth > 0 {
		switch {
		case e.IsStart(TagImage):
			p.altDepth++
		case e.IsEnd(TagImage):
			p.altDepth--
			p.closeImage()
		case e.Kind == KindText, e.Kind == KindCode, e.Kind == KindInlineMath, e.Kind == KindDisplayMath:
			p.write(Escape(e.Text))
		case e.Kind == KindSoftBreak, e.Kind == KindHardBreak:
			p.write(" ")
		}
		return
	}

	switch e.Kind {
	case KindStart:
		p.start(e)
	case KindEnd:
		p.end(e)
	case KindText:
		p.write(Escape(e.Text))
	case KindCode:
		p.write("<code>", Escape(e.Text), "</code>")
	case KindHTML, KindInlineHTML:
		p.write(e.Text)
	case KindSoftBreak:
		p.write("\n")
	case KindHardBreak:
		p.write("<br />\n")
	case KindRule:
		p.write("<hr />\n")
	case KindTaskMarker:
		if e.Checked {
			p.write(`<input disabled="" type="checkbox" checked=""/>`, "\n")
		} else {
			p.write(`<input disabled="" type="checkbox"/>`, "\n")
		}
	case KindInlineMath:
		p.write(`<span class="math math-inline">`, Escape(e.Text), "</span>")
	case KindDisplayMath:
		p.write(`<span class="math math-display">`, Escape(e.Text), "</span>")
	}
}

func (p *printer) start(e Event) {
	switch e.Tag {
	case TagMetadataBlock:
		p.inMetadata = true
	case TagParagraph:
		p.write("<p>")
	case TagHeading:
		p.write("<h", strconv.Itoa(e.Level))
		if e.ID != "" {
			p.write(` id="`, Escape(e.ID), `"`)
		}
		p.write(">")
	case TagBlockQuote:
		p.write("<blockquote>\n")
	case TagCodeBlock:
		if lang := firstWord(e.Lang); lang != "" {
			p.write(`<pre><code class="language-`, Escape(lang), `">`)
		} else {
			p.write("<pre><code>")
		}
	case TagList:
		switch {
		case !e.Ordered:
			p.write("<ul>\n")
		case e.Start != 1:
			p.write(`<ol start="`, strconv.Itoa(e.Start), `">`, "\n")
		default:
			p.write("<ol>\n")
		}
	case TagItem:
		p.write("<li>")
	case TagEmphasis:
		p.write("<em>")
	case TagStrong:
		p.write("<strong>")
	case TagStrikethrough:
		p.write("<del>")
	case TagLink:
		p.write(`<a href="`, Escape(e.Dest), `"`)
		if e.Title != "" {
			p.write(` title="`, Escape(e.Title), `"`)
		}
		p.write(">")
	case TagImage:
		p.write(`<img src="`, Escape(e.Dest), `" alt="`)
		p.altDepth = 1
		p.imageTitle = e.Title
	case TagTable:
		p.write("<table>")
	case TagTableHead:
		p.inHead = true
		p.write("<thead><tr>")
	case TagTableRow:
		if !p.inBody {
			p.inBody = true
			p.write("<tbody>\n")
		}
		p.write("<tr>")
	case TagTableCell:
		cell := "td"
		if p.inHead {
			cell = "th"
		}
		p.write("<", cell)
		if a := e.Align.String(); a != "" {
			p.write(` style="text-align: `, a, `"`)
		}
		p.write(">")
	}
}

func (p *printer) end(e Event) {
	switch e.Tag {
	case TagParagraph:
		p.write("</p>\n")
	case TagHeading:
		p.write("</h", strconv.Itoa(e.Level), ">\n")
	case TagBlockQuote:
		p.write("</blockquote>\n")
	case TagCodeBlock:
		p.write("</code></pre>\n")
	case TagList:
		if e.Ordered {
			p.write("</ol>\n")
		} else {
			p.write("</ul>\n")
		}
	case TagItem:
		p.write("</li>\n")
	case TagEmphasis:
		p.write("</em>")
	case TagStrong:
		p.write("</strong>")
	case TagStrikethrough:
		p.write("</del>")
	case TagLink:
		p.write("</a>")
	case TagTable:
		if p.inBody {
			p.write("</tbody>")
		}
		p.write("</table>\n")
		p.inBody = false
	case TagTableHead:
		p.write("</tr></thead>\n")
		p.inHead = false
	case TagTableRow:
		p.write("</tr>\n")
	case TagTableCell:
		if p.inHead {
			p.write("</th>")
		} else {
			p.write("</td>")
		}
	}
}

func (p *printer) closeImage() {
	if p.altDepth > 0 {
		return
	}
	p.write(`"`)
	if p.imageTitle != "" {
		p.write(` title="`, Escape(p.imageTitle), `"`)
	}
	p.write(" />")
}

// Escape escapes text for use in HTML content and double-quoted attributes.
func Escape(s string) string {
	return html.EscapeString(s)
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t{"); i >= 0 {
		s = s[:i]
	}
	return s
}

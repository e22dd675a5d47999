package markdown

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Parser converts Markdown source into an event stream.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with GFM tables, strikethrough, task lists,
// autolinks and dollar math enabled.
func NewParser() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM, Math))}
}

// Parse flattens source into events. A leading YAML front matter block is
// reported as a MetadataBlock wrapping a single Text event.
func (p *Parser) Parse(ctx context.Context, source []byte) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := crlfOrCR.ReplaceAll(source, []byte("\n"))
	src = bytes.TrimPrefix(src, []byte("\ufeff"))

	var events []Event
	if yaml, body, ok := SplitFrontMatter(src); ok {
		events = append(events, Start(TagMetadataBlock), Text(yaml), End(TagMetadataBlock))
		src = body
	}

	root := p.md.Parser().Parse(text.NewReader(src))
	w := &walker{source: src, events: events}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, err
	}
	return w.events, nil
}

// SplitFrontMatter separates a "---" delimited YAML block from the body.
// The closing fence may be "---" or "...".
func SplitFrontMatter(src []byte) (yaml string, body []byte, ok bool) {
	if !bytes.HasPrefix(src, []byte("---\n")) {
		return "", src, false
	}
	rest := src[len("---\n"):]
	offset := 0
	for offset <= len(rest) {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if end < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
		}
		trimmed := strings.TrimRight(string(line), " \t")
		if trimmed == "---" || trimmed == "..." {
			yaml = string(rest[:offset])
			if end < 0 {
				return yaml, nil, true
			}
			return yaml, rest[offset+end+1:], true
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return "", src, false
}

type walker struct {
	source []byte
	events []Event
}

func (w *walker) emit(e Event) { w.events = append(w.events, e) }

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil

	case *ast.Paragraph:
		w.container(TagParagraph, entering)

	case *ast.TextBlock:
		// Tight list items: no paragraph wrapper.

	case *ast.Heading:
		start, end := Heading(node.Level)
		if entering {
			w.emit(start)
		} else {
			w.emit(end)
		}

	case *ast.Blockquote:
		w.container(TagBlockQuote, entering)

	case *ast.ThematicBreak:
		if entering {
			w.emit(Event{Kind: KindRule})
		}

	case *ast.FencedCodeBlock:
		if entering {
			w.codeBlock(node, string(node.Language(w.source)), true)
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			w.codeBlock(node, "", false)
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		if entering {
			var buf bytes.Buffer
			w.writeLines(&buf, node.Lines())
			if node.HasClosure() {
				buf.Write(node.ClosureLine.Value(w.source))
			}
			w.emit(HTML(buf.String()))
		}
		return ast.WalkSkipChildren, nil

	case *ast.List:
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagList, Ordered: node.IsOrdered(), Start: node.Start})
		} else {
			w.emit(Event{Kind: KindEnd, Tag: TagList, Ordered: node.IsOrdered()})
		}

	case *ast.ListItem:
		w.container(TagItem, entering)

	case *ast.Text:
		if entering {
			w.text(node)
		}

	case *ast.String:
		if entering {
			if node.IsCode() || node.IsRaw() {
				w.emit(Text(string(node.Value)))
			} else {
				w.emit(Text(unescape(node.Value)))
			}
		}

	case *ast.CodeSpan:
		if entering {
			w.emit(Event{Kind: KindCode, Text: w.codeSpan(node)})
		}
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		tag := TagEmphasis
		if node.Level >= 2 {
			tag = TagStrong
		}
		w.container(tag, entering)

	case *ast.Link:
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagLink, Dest: string(node.Destination), Title: string(node.Title)})
		} else {
			w.emit(End(TagLink))
		}

	case *ast.AutoLink:
		if entering {
			url := string(node.URL(w.source))
			label := string(node.Label(w.source))
			w.emit(Event{Kind: KindStart, Tag: TagLink, Dest: url})
			w.emit(Text(label))
			w.emit(End(TagLink))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		if entering {
			w.emit(Event{Kind: KindStart, Tag: TagImage, Dest: string(node.Destination), Title: string(node.Title)})
		} else {
			w.emit(End(TagImage))
		}

	case *ast.RawHTML:
		if entering {
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(w.source))
			}
			w.emit(InlineHTML(buf.String()))
		}
		return ast.WalkSkipChildren, nil

	case *east.Strikethrough:
		w.container(TagStrikethrough, entering)

	case *east.TaskCheckBox:
		if entering {
			w.emit(Event{Kind: KindTaskMarker, Checked: node.IsChecked})
		}

	case *east.Table:
		if entering {
			aligns := make([]Align, len(node.Alignments))
			for i, a := range node.Alignments {
				aligns[i] = alignOf(a)
			}
			w.emit(Event{Kind: KindStart, Tag: TagTable, Aligns: aligns})
		} else {
			w.emit(End(TagTable))
		}

	case *east.TableHeader:
		w.container(TagTableHead, entering)

	case *east.TableRow:
		w.container(TagTableRow, entering)

	case *east.TableCell:
		e := Event{Kind: KindEnd, Tag: TagTableCell, Align: alignOf(node.Alignment)}
		if entering {
			e.Kind = KindStart
		}
		w.emit(e)

	case *InlineMathNode:
		if entering {
			kind := KindInlineMath
			if node.Display {
				kind = KindDisplayMath
			}
			w.emit(Event{Kind: kind, Text: string(node.TeX)})
		}
		return ast.WalkSkipChildren, nil

	case *MathBlockNode:
		if entering {
			w.emit(Event{Kind: KindDisplayMath, Text: string(node.TeX(w.source))})
		}
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (w *walker) container(tag Tag, entering bool) {
	if entering {
		w.emit(Start(tag))
	} else {
		w.emit(End(tag))
	}
}

func (w *walker) text(node *ast.Text) {
	value := node.Segment.Value(w.source)
	switch {
	case len(value) == 0:
	case node.IsRaw():
		w.emit(Text(string(value)))
	default:
		w.emit(Text(unescape(value)))
	}
	switch {
	case node.HardLineBreak():
		w.emit(Event{Kind: KindHardBreak})
	case node.SoftLineBreak():
		w.emit(Event{Kind: KindSoftBreak})
	}
}

func (w *walker) codeBlock(n ast.Node, lang string, fenced bool) {
	var buf bytes.Buffer
	w.writeLines(&buf, n.Lines())
	w.emit(Event{Kind: KindStart, Tag: TagCodeBlock, Lang: lang, Fenced: fenced})
	if buf.Len() > 0 {
		w.emit(Text(buf.String()))
	}
	w.emit(Event{Kind: KindEnd, Tag: TagCodeBlock, Fenced: fenced})
}

func (w *walker) codeSpan(n *ast.CodeSpan) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			v := t.Segment.Value(w.source)
			if bytes.HasSuffix(v, []byte("\n")) {
				v = append(v[:len(v)-1:len(v)-1], ' ')
			}
			buf.Write(v)
		case *ast.String:
			buf.Write(t.Value)
		}
	}
	return buf.String()
}

func (w *walker) writeLines(buf *bytes.Buffer, lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(w.source))
	}
}

// unescape resolves backslash escapes and character references the way the
// HTML renderer would before escaping.
func unescape(v []byte) string {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	v = util.ResolveEntityNames(v)
	return string(v)
}

func alignOf(a east.Alignment) Align {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}

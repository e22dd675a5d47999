package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Node kinds of the TeX spans added to the goldmark AST.
var (
	KindInlineMathNode = ast.NewNodeKind("InlineMath")
	KindMathBlockNode  = ast.NewNodeKind("MathBlock")
)

// InlineMathNode is a $...$ span, or a $$...$$ span written inside a
// paragraph (which renders in display mode).
type InlineMathNode struct {
	ast.BaseInline
	TeX     []byte
	Display bool
}

func (n *InlineMathNode) Kind() ast.NodeKind { return KindInlineMathNode }

func (n *InlineMathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TeX": string(n.TeX)}, nil)
}

// MathBlockNode is a $$ fenced display block. Its lines hold the TeX source.
type MathBlockNode struct {
	ast.BaseBlock
	closed bool
}

func (n *MathBlockNode) Kind() ast.NodeKind { return KindMathBlockNode }

// IsRaw keeps goldmark from running inline parsers over the TeX.
func (n *MathBlockNode) IsRaw() bool { return true }

func (n *MathBlockNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// TeX returns the block content joined from its lines.
func (n *MathBlockNode) TeX(source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return bytes.TrimSpace(buf.Bytes())
}

var mathDelim = []byte("$$")

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (b *mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, seg := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], mathDelim) {
		return nil, parser.NoChildren
	}

	node := &MathBlockNode{}
	start := pos + len(mathDelim)
	rest := bytes.TrimRight(line[start:], " \t\r\n")

	// Single line form: $$ x^2 $$
	if len(rest) >= len(mathDelim) && bytes.HasSuffix(rest, mathDelim) {
		inner := start + len(rest) - len(mathDelim)
		node.Lines().Append(text.NewSegment(seg.Start+start, seg.Start+inner))
		node.closed = true
		return node, parser.NoChildren
	}
	// "$$a$$ and text" is inline display math inside a paragraph.
	if bytes.Contains(rest, mathDelim) {
		return nil, parser.NoChildren
	}
	if len(bytes.TrimSpace(rest)) > 0 {
		node.Lines().Append(text.NewSegment(seg.Start+start, seg.Stop))
	}
	return node, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	n := node.(*MathBlockNode)
	if n.closed {
		return parser.Close
	}

	line, seg := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	newline := 0
	if line[len(line)-1] == '\n' {
		newline = 1
	}

	trimmed := bytes.TrimRight(line, " \t\r\n")
	if bytes.HasSuffix(trimmed, mathDelim) {
		body := len(trimmed) - len(mathDelim)
		if body > 0 {
			n.Lines().Append(text.NewSegment(seg.Start, seg.Start+body))
		}
		reader.Advance(seg.Len() - newline)
		n.closed = true
		return parser.Close
	}

	n.Lines().Append(seg)
	reader.Advance(seg.Len() - newline)
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool { return true }

func (b *mathBlockParser) CanAcceptIndentedLine() bool { return false }

type inlineMathParser struct{}

func (p *inlineMathParser) Trigger() []byte { return []byte{'$'} }

// Parse follows the usual dollar-math rules: a single-dollar span may not
// start or end with whitespace and may not be followed by a digit, so prices
// such as "$5 and $6" stay text. Spans do not cross line breaks.
func (p *inlineMathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '$' {
		return nil
	}

	width := 1
	if line[1] == '$' {
		width = 2
	}
	body := line[width:]
	if len(body) == 0 {
		return nil
	}
	if width == 1 && util.IsSpace(body[0]) {
		return nil
	}

	closer := bytes.Repeat([]byte{'$'}, width)
	for i := 0; i+width <= len(body); i++ {
		if body[i] == '\n' {
			return nil
		}
		if body[i] == '\\' {
			i++
			continue
		}
		if !bytes.HasPrefix(body[i:], closer) {
			continue
		}
		// Longer dollar runs do not close a shorter opener.
		if i+width < len(body) && body[i+width] == '$' {
			i += width
			continue
		}
		if i == 0 {
			return nil
		}
		if width == 1 {
			if util.IsSpace(body[i-1]) {
				continue
			}
			if i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '9' {
				continue
			}
		}
		node := &InlineMathNode{
			TeX:     append([]byte(nil), body[:i]...),
			Display: width == 2,
		}
		block.Advance(width + i + width)
		return node
	}
	return nil
}

type mathExtension struct{}

// Math is a goldmark extension that parses $...$ and $$...$$ TeX.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 650)),
		parser.WithInlineParsers(util.Prioritized(&inlineMathParser{}, 150)),
	)
}

package markdown

import "strconv"

// Kind classifies an Event.
type Kind uint8

const (
	KindStart Kind = iota
	KindEnd
	KindText
	KindCode        // inline code span
	KindHTML        // raw block HTML
	KindInlineHTML  // raw inline HTML
	KindSoftBreak
	KindHardBreak
	KindRule
	KindTaskMarker
	KindInlineMath
	KindDisplayMath
)

var kindNames = [...]string{
	KindStart:       "Start",
	KindEnd:         "End",
	KindText:        "Text",
	KindCode:        "Code",
	KindHTML:        "HTML",
	KindInlineHTML:  "InlineHTML",
	KindSoftBreak:   "SoftBreak",
	KindHardBreak:   "HardBreak",
	KindRule:        "Rule",
	KindTaskMarker:  "TaskMarker",
	KindInlineMath:  "InlineMath",
	KindDisplayMath: "DisplayMath",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Tag identifies the container opened by a Start event and closed by the
// matching End event.
type Tag uint8

const (
	TagNone Tag = iota
	TagMetadataBlock
	TagParagraph
	TagHeading
	TagBlockQuote
	TagCodeBlock
	TagList
	TagItem
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagLink
	TagImage
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
)

var tagNames = [...]string{
	TagNone:          "None",
	TagMetadataBlock: "MetadataBlock",
	TagParagraph:     "Paragraph",
	TagHeading:       "Heading",
	TagBlockQuote:    "BlockQuote",
	TagCodeBlock:     "CodeBlock",
	TagList:          "List",
	TagItem:          "Item",
	TagEmphasis:      "Emphasis",
	TagStrong:        "Strong",
	TagStrikethrough: "Strikethrough",
	TagLink:          "Link",
	TagImage:         "Image",
	TagTable:         "Table",
	TagTableHead:     "TableHead",
	TagTableRow:      "TableRow",
	TagTableCell:     "TableCell",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// Align is a table column alignment.
type Align uint8

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// Event is one node of the flattened document. Start and End events carry
// the attributes of their Tag; leaf events carry Text.
type Event struct {
	Kind Kind
	Tag  Tag

	// Text is the payload of Text, Code, HTML, InlineHTML and math events.
	Text string

	// Heading attributes.
	Level int
	ID    string

	// Link and image attributes.
	Dest  string
	Title string

	// Code block attributes.
	Lang   string
	Fenced bool

	// List attributes.
	Ordered bool
	Start   int

	// Table column alignments on Start(Table); cell alignment on table cells.
	Aligns []Align
	Align  Align

	// Checked marks a ticked task list item.
	Checked bool
}

// IsStart reports whether e opens tag.
func (e Event) IsStart(tag Tag) bool { return e.Kind == KindStart && e.Tag == tag }

// IsEnd reports whether e closes tag.
func (e Event) IsEnd(tag Tag) bool { return e.Kind == KindEnd && e.Tag == tag }

func (e Event) String() string {
	switch e.Kind {
	case KindStart, KindEnd:
		return e.Kind.String() + "(" + e.Tag.String() + ")"
	case KindText, KindCode, KindHTML, KindInlineHTML, KindInlineMath, KindDisplayMath:
		return e.Kind.String() + "(" + strconv.Quote(e.Text) + ")"
	default:
		return e.Kind.String()
	}
}

// Start returns a Start event for tag.
func Start(tag Tag) Event { return Event{Kind: KindStart, Tag: tag} }

// End returns an End event for tag.
func End(tag Tag) Event { return Event{Kind: KindEnd, Tag: tag} }

// Text returns a text event.
func Text(s string) Event { return Event{Kind: KindText, Text: s} }

// HTML returns a raw block HTML event.
func HTML(s string) Event { return Event{Kind: KindHTML, Text: s} }

// InlineHTML returns a raw inline HTML event.
func InlineHTML(s string) Event { return Event{Kind: KindInlineHTML, Text: s} }

// Heading returns the Start and End events of a heading.
func Heading(level int) (start, end Event) {
	start = Event{Kind: KindStart, Tag: TagHeading, Level: level}
	end = Event{Kind: KindEnd, Tag: TagHeading, Level: level}
	return start, end
}

package pipeline

import (
	"strings"

	"github.com/alnah/go-zakki/internal/markdown"
)

// TOCItem is one entry of the table of contents. Level is the heading
// level minus one, so H2 entries sit at level 1.
type TOCItem struct {
	Title string
	ID    string
	Level int
}

// TocBuild collects headings of level 2 and deeper, after AssignHeaderID,
// and stores the rendered outline in c.
func TocBuild(events []markdown.Event, c *Context) ([]markdown.Event, error) {
	var items []TOCItem
	for i, e := range events {
		if !e.IsStart(markdown.TagHeading) || e.Level < 2 {
			continue
		}
		title, _ := plainText(events, i)
		items = append(items, TOCItem{Title: strings.TrimSpace(title), ID: e.ID, Level: e.Level - 1})
	}
	c.SetTOC(RenderTOC(items))
	return events, nil
}

// RenderTOC renders items as nested lists. Going deeper opens "<ul><li>"
// per level, going up closes "</li></ul>" per level, and an item that does
// not go deeper starts a sibling with "</li><li>".
func RenderTOC(items []TOCItem) string {
	var b strings.Builder
	prev := 0
	for _, it := range items {
		for range it.Level - prev {
			b.WriteString("<ul><li>")
		}
		for range prev - it.Level {
			b.WriteString("</li></ul>")
		}
		if it.Level <= prev {
			b.WriteString("</li><li>")
		}
		b.WriteString(`<a href="#` + markdown.Escape(it.ID) + `">` + markdown.Escape(it.Title) + "</a>")
		prev = it.Level
	}
	for range prev {
		b.WriteString("</li></ul>")
	}
	return b.String()
}

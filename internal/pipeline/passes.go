package pipeline

import (
	"strconv"
	"strings"

	"github.com/alnah/go-zakki/internal/fileutil"
	"github.com/alnah/go-zakki/internal/markdown"
)

// DefaultTitle names documents without a level-1 heading.
const DefaultTitle = "No Title"

// GetTitle sets the title to the text of the first level-1 heading.
func GetTitle(events []markdown.Event, c *Context) ([]markdown.Event, error) {
	for i, e := range events {
		if e.IsStart(markdown.TagHeading) && e.Level == 1 {
			if title, _ := plainText(events, i); strings.TrimSpace(title) != "" {
				c.SetTitle(strings.TrimSpace(title))
				return events, nil
			}
			break
		}
	}
	c.SetTitle(DefaultTitle)
	return events, nil
}

// LinkAdjust points local links to Markdown files at their rendered pages.
func LinkAdjust(events []markdown.Event, _ *Context) ([]markdown.Event, error) {
	for i := range events {
		e := &events[i]
		if e.IsStart(markdown.TagLink) && !fileutil.IsURL(e.Dest) && strings.HasSuffix(e.Dest, ".md") {
			e.Dest = strings.TrimSuffix(e.Dest, ".md") + ".html"
		}
	}
	return events, nil
}

// ConvertImage replaces each image with a scrollable figure. SVG files are
// embedded with <object> so their scripts and fonts work; other images load
// lazily. The alt text doubles as the caption.
func ConvertImage(events []markdown.Event, _ *Context) ([]markdown.Event, error) {
	out := make([]markdown.Event, 0, len(events))
	for i := 0; i < len(events); i++ {
		e := events[i]
		if !e.IsStart(markdown.TagImage) {
			out = append(out, e)
			continue
		}
		alt, end := plainText(events, i)
		out = append(out, markdown.InlineHTML(figure(e.Dest, alt, e.Title)))
		i = end
	}
	return out, nil
}

func figure(url, alt, title string) string {
	var b strings.Builder
	b.WriteString(`<figure><div class="zakki-scroll">`)
	if strings.HasSuffix(strings.ToLower(url), ".svg") {
		b.WriteString(`<object type="image/svg+xml" data="` + markdown.Escape(url) + `"></object>`)
	} else {
		b.WriteString(`<img loading="lazy" src="` + markdown.Escape(url) + `"`)
		if alt != "" {
			b.WriteString(` alt="` + markdown.Escape(alt) + `"`)
		}
		if title != "" {
			b.WriteString(` title="` + markdown.Escape(title) + `"`)
		}
		b.WriteString("/>")
	}
	b.WriteString("</div>")
	if alt != "" {
		b.WriteString("<figcaption>" + markdown.Escape(alt) + "</figcaption>")
	}
	b.WriteString("</figure>")
	return b.String()
}

// AssignHeaderID numbers headings hierarchically: "1", "1.1", "2", ...
// Level-1 headings get an empty id. A heading zeroes every deeper counter,
// and ids stop at the first zero counter, so skipping a level (H2 then H4)
// yields a truncated id.
func AssignHeaderID(events []markdown.Event, _ *Context) ([]markdown.Event, error) {
	var counters [6]int
	for i := range events {
		e := &events[i]
		if !e.IsStart(markdown.TagHeading) {
			continue
		}
		level := min(max(e.Level, 1), 6)
		clear(counters[level:])
		counters[level-1]++
		e.ID = headingID(counters[1:])
	}
	return events, nil
}

func headingID(counters []int) string {
	parts := make([]string, 0, len(counters))
	for _, n := range counters {
		if n <= 0 {
			break
		}
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ".")
}

// TableWrapper wraps each table in a horizontally scrollable container.
func TableWrapper(events []markdown.Event, _ *Context) ([]markdown.Event, error) {
	out := make([]markdown.Event, 0, len(events)+4)
	for _, e := range events {
		switch {
		case e.IsStart(markdown.TagTable):
			out = append(out, markdown.HTML(`<div class="table-wrapper">`), e)
		case e.IsEnd(markdown.TagTable):
			out = append(out, e, markdown.HTML("</div>\n"))
		default:
			out = append(out, e)
		}
	}
	return out, nil
}

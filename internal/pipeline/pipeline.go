package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-zakki/internal/logfields"
	"github.com/alnah/go-zakki/internal/markdown"
)

// PassFunc rewrites one document's events, reading and writing c.
type PassFunc func(events []markdown.Event, c *Context) ([]markdown.Event, error)

// Pass is a named stage of the pipeline.
type Pass struct {
	Name string
	Run  PassFunc
}

// DefaultPasses returns the document passes in execution order. ReadHeader
// must stay first: DraftGate and most later passes read what it sets.
func DefaultPasses() []Pass {
	return []Pass{
		{Name: "read-header", Run: ReadHeader},
		{Name: "draft-gate", Run: DraftGate},
		{Name: "get-title", Run: GetTitle},
		{Name: "link-adjust", Run: LinkAdjust},
		{Name: "convert-image", Run: ConvertImage},
		{Name: "convert-math", Run: ConvertMath},
		{Name: "highlight-code", Run: HighlightCode},
		{Name: "assign-header-id", Run: AssignHeaderID},
		{Name: "table-wrapper", Run: TableWrapper},
		{Name: "toc-build", Run: TocBuild},
	}
}

// Pipeline runs passes in order over one document at a time. A Pipeline
// holds no per-document state and may be shared between goroutines.
type Pipeline struct {
	passes []Pass
	logger *slog.Logger
}

// New creates a Pipeline. A nil logger discards output.
func New(logger *slog.Logger, passes ...Pass) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{passes: passes, logger: logger}
}

// Run applies every pass to events. It stops early without error when a
// pass halts c, and returns the first pass error annotated with the pass name.
func (p *Pipeline) Run(ctx context.Context, events []markdown.Event, c *Context) ([]markdown.Event, error) {
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := pass.Run(events, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pass.Name, err)
		}
		events = out
		p.logger.LogAttrs(ctx, slog.LevelDebug, "pass done",
			logfields.Pass(pass.Name), logfields.Duration(time.Since(start)))

		if c.Halted() {
			p.logger.LogAttrs(ctx, slog.LevelDebug, "pipeline halted", logfields.Pass(pass.Name))
			break
		}
	}
	return events, nil
}

// plainText concatenates the text below the container opened at
// events[start] and returns it with the index of the matching End event.
// If the container is never closed, end is len(events).
func plainText(events []markdown.Event, start int) (text string, end int) {
	tag := events[start].Tag
	depth := 0
	var b []byte
	for i := start; i < len(events); i++ {
		e := events[i]
		switch {
		case e.IsStart(tag):
			depth++
		case e.IsEnd(tag):
			depth--
			if depth == 0 {
				return string(b), i
			}
		case e.Kind == markdown.KindText, e.Kind == markdown.KindCode,
			e.Kind == markdown.KindInlineMath, e.Kind == markdown.KindDisplayMath:
			b = append(b, e.Text...)
		case e.Kind == markdown.KindSoftBreak, e.Kind == markdown.KindHardBreak:
			b = append(b, ' ')
		}
	}
	return string(b), len(events)
}

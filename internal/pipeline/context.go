package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alnah/go-zakki/internal/search"
)

// Sentinel errors for pass failures.
var (
	ErrMissingField = errors.New("has not been set yet")
	ErrHeaderParse  = errors.New("invalid front matter")
	ErrMathRender   = errors.New("math rendering failed")
)

// field is an optional value that must be written before it is read.
type field[T any] struct {
	v   T
	set bool
}

func (f *field[T]) put(v T) { f.v, f.set = v, true }

func (f *field[T]) get(name string) (T, error) {
	if !f.set {
		var zero T
		return zero, fmt.Errorf("%s %w", name, ErrMissingField)
	}
	return f.v, nil
}

// Options are the read-only per-run settings passes consult.
type Options struct {
	// RenderDrafts keeps documents flagged draft.
	RenderDrafts bool

	// Math renders TeX spans. Nil selects the KaTeX auto-render renderer
	// with its default CDN.
	Math MathRenderer

	// Highlighter, when set, highlights fenced code blocks of documents
	// that declare no highlight rules.
	Highlighter CodeHighlighter
}

// Context accumulates one document's metadata and side assets while the
// passes run. It is created per document and never shared.
type Context struct {
	opts Options

	createDate field[string]
	updateDate field[string]
	tags       field[[]string]
	flags      field[[]Flag]
	title      field[string]
	highlights field[[]HighlightRule]
	password   field[string]
	toc        field[string]
	bloom      field[*search.Filter]
	outputPath field[string]

	css []string
	js  []string

	halted bool
}

// NewContext creates an empty Context.
func NewContext(opts Options) *Context {
	return &Context{opts: opts}
}

// Options returns the run options.
func (c *Context) Options() Options { return c.opts }

// Getters fail with ErrMissingField until the owning pass sets the field.

func (c *Context) CreateDate() (string, error) { return c.createDate.get("create date") }
func (c *Context) UpdateDate() (string, error) { return c.updateDate.get("update date") }
func (c *Context) Tags() ([]string, error) { return c.tags.get("tags") }
func (c *Context) Flags() ([]Flag, error) { return c.flags.get("flags") }
func (c *Context) Title() (string, error) { return c.title.get("title") }
func (c *Context) Highlights() ([]HighlightRule, error) { return c.highlights.get("highlights") }
func (c *Context) Password() (string, error) { return c.password.get("password") }
func (c *Context) TOC() (string, error) { return c.toc.get("toc") }
func (c *Context) BloomFilter() (*search.Filter, error) { return c.bloom.get("bloom filter") }
func (c *Context) OutputPath() (string, error) { return c.outputPath.get("output path") }

func (c *Context) SetCreateDate(v string) { c.createDate.put(v) }
func (c *Context) SetUpdateDate(v string) { c.updateDate.put(v) }
func (c *Context) SetTags(v []string) { c.tags.put(v) }
func (c *Context) SetFlags(v []Flag) { c.flags.put(v) }
func (c *Context) SetTitle(v string) { c.title.put(v) }
func (c *Context) SetHighlights(v []HighlightRule) { c.highlights.put(v) }
func (c *Context) SetPassword(v string) { c.password.put(v) }
func (c *Context) SetTOC(v string) { c.toc.put(v) }
func (c *Context) SetBloomFilter(v *search.Filter) { c.bloom.put(v) }
func (c *Context) SetOutputPath(v string) { c.outputPath.put(v) }

// HasFlag reports whether flag was declared. Unset flags count as absent.
func (c *Context) HasFlag(flag Flag) bool {
	return slices.Contains(c.flags.v, flag)
}

// PushCSS registers an extra stylesheet once.
func (c *Context) PushCSS(path string) {
	if !slices.Contains(c.css, path) {
		c.css = append(c.css, path)
	}
}

// PushJS registers an extra script once.
func (c *Context) PushJS(path string) {
	if !slices.Contains(c.js, path) {
		c.js = append(c.js, path)
	}
}

// CSS returns the extra stylesheets in registration order.
func (c *Context) CSS() []string { return slices.Clone(c.css) }

// JS returns the extra scripts in registration order.
func (c *Context) JS() []string { return slices.Clone(c.js) }

// Halt stops the pipeline after the current pass. Halting is not an error.
func (c *Context) Halt() { c.halted = true }

// Halted reports whether a pass called Halt.
func (c *Context) Halted() bool { return c.halted }

// Metadata converts the context into PageMetadata. Every metadata field
// must be set.
func (c *Context) Metadata() (PageMetadata, error) {
	var (
		m    PageMetadata
		errs []error
	)
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	m.Create, err = c.CreateDate()
	collect(err)
	m.Update, err = c.UpdateDate()
	collect(err)
	m.Tags, err = c.Tags()
	collect(err)
	m.Flags, err = c.Flags()
	collect(err)
	m.Title, err = c.Title()
	collect(err)
	m.Path, err = c.OutputPath()
	collect(err)
	m.Bloom, err = c.BloomFilter()
	collect(err)

	if len(errs) > 0 {
		return PageMetadata{}, errors.Join(errs...)
	}
	m.Tags = slices.Clone(m.Tags)
	m.Flags = slices.Clone(m.Flags)
	return m, nil
}

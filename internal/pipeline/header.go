package pipeline

import (
	"fmt"
	"time"

	"github.com/alnah/go-zakki/internal/dateutil"
	"github.com/alnah/go-zakki/internal/markdown"
	"github.com/alnah/go-zakki/internal/yamlutil"
)

// frontMatter mirrors the YAML block at the top of a document. The singular
// keys are accepted as aliases of the plural ones.
type frontMatter struct {
	Create     yamlDate        `yaml:"create"`
	Update     yamlDate        `yaml:"update"`
	Tags       stringList      `yaml:"tags"`
	Tag        stringList      `yaml:"tag"`
	Flags      stringList      `yaml:"flags"`
	Flag       stringList      `yaml:"flag"`
	Password   *string         `yaml:"password"`
	Highlights []HighlightRule `yaml:"highlights"`
	Highlight  []HighlightRule `yaml:"highlight"`
}

// ReadHeader decodes the front matter block into c. A missing block,
// malformed YAML, missing dates, unknown flags and invalid highlight rules
// all fail with ErrHeaderParse.
func ReadHeader(events []markdown.Event, c *Context) ([]markdown.Event, error) {
	raw, ok := findFrontMatter(events)
	if !ok {
		return nil, fmt.Errorf("%w: front matter block is missing", ErrHeaderParse)
	}

	var fm frontMatter
	if err := yamlutil.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderParse, err)
	}

	create, err := requiredDate("create", string(fm.Create))
	if err != nil {
		return nil, err
	}
	update, err := requiredDate("update", string(fm.Update))
	if err != nil {
		return nil, err
	}

	flags := make([]Flag, 0, len(fm.Flags)+len(fm.Flag))
	for _, name := range append(fm.Flags, fm.Flag...) {
		f, err := ParseFlag(name)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}

	c.SetCreateDate(create)
	c.SetUpdateDate(update)
	c.SetTags(append(append([]string{}, fm.Tags...), fm.Tag...))
	c.SetFlags(flags)

	if rules := append(fm.Highlights, fm.Highlight...); len(rules) > 0 {
		for i := range rules {
			if err := rules[i].compile(); err != nil {
				return nil, fmt.Errorf("%w: highlight rule %d: %v", ErrHeaderParse, i+1, err)
			}
		}
		c.SetHighlights(rules)
	}
	if fm.Password != nil && *fm.Password != "" {
		c.SetPassword(*fm.Password)
	}

	return events, nil
}

// yamlDate accepts dates written quoted or bare; a bare date may decode as
// a timestamp depending on the YAML resolver.
type yamlDate string

func (d *yamlDate) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*d = ""
	case string:
		*d = yamlDate(t)
	case time.Time:
		*d = yamlDate(t.Format(dateutil.ISOLayout))
	default:
		*d = yamlDate(fmt.Sprint(t))
	}
	return nil
}

// stringList accepts a sequence or a single scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*l = nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		*l = out
	default:
		*l = []string{fmt.Sprint(t)}
	}
	return nil
}

func findFrontMatter(events []markdown.Event) (string, bool) {
	for i, e := range events {
		if !e.IsStart(markdown.TagMetadataBlock) {
			continue
		}
		if i+1 < len(events) && events[i+1].Kind == markdown.KindText {
			return events[i+1].Text, true
		}
		return "", true
	}
	return "", false
}

func requiredDate(key, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: %q is required", ErrHeaderParse, key)
	}
	iso, err := dateutil.Normalize(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHeaderParse, key, err)
	}
	return iso, nil
}

// DraftGate halts the pipeline for draft documents unless drafts are
// rendered. A halted document produces neither HTML nor metadata.
func DraftGate(events []markdown.Event, c *Context) ([]markdown.Event, error) {
	if _, err := c.Flags(); err != nil {
		return nil, err
	}
	if c.HasFlag(FlagDraft) && !c.Options().RenderDrafts {
		c.Halt()
	}
	return events, nil
}

package pipeline

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/go-zakki/internal/markdown"
	"github.com/alnah/go-zakki/internal/search"
)

const header = "---\ncreate: 2024-01-02\nupdate: 2024-03-04\ntags: [go, web]\n---\n"

func parse(t *testing.T, src string) []markdown.Event {
	t.Helper()
	events, err := markdown.NewParser().Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return events
}

func run(t *testing.T, src string, opts Options) ([]markdown.Event, *Context, error) {
	t.Helper()
	c := NewContext(opts)
	events, err := New(nil, DefaultPasses()...).Run(context.Background(), parse(t, src), c)
	return events, c, err
}

// ---------------------------------------------------------------------------
// Context
// ---------------------------------------------------------------------------

func TestContext_MissingField(t *testing.T) {
	t.Parallel()

	c := NewContext(Options{})
	_, err := c.Title()
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Title() error = %v, want ErrMissingField", err)
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("error %q does not name the field", err)
	}

	c.SetTitle("")
	if got, err := c.Title(); err != nil || got != "" {
		t.Errorf("Title() after set = %q, %v", got, err)
	}
}

func TestContext_Metadata(t *testing.T) {
	t.Parallel()

	c := NewContext(Options{})
	c.SetCreateDate("2024-01-01")
	c.SetUpdateDate("2024-01-02")
	c.SetTags([]string{"a"})
	c.SetFlags(nil)
	c.SetTitle("T")

	_, err := c.Metadata()
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Metadata() error = %v, want ErrMissingField", err)
	}
	for _, name := range []string{"output path", "bloom filter"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Metadata() error %q does not name %q", err, name)
		}
	}

	c.SetOutputPath("posts/a.html")
	c.SetBloomFilter(&search.Filter{})
	m, err := c.Metadata()
	if err != nil {
		t.Fatalf("Metadata() unexpected error: %v", err)
	}
	if m.Title != "T" || m.Path != "posts/a.html" || m.Update != "2024-01-02" {
		t.Errorf("Metadata() = %+v", m)
	}
}

func TestContext_AssetsDeduplicated(t *testing.T) {
	t.Parallel()

	c := NewContext(Options{})
	c.PushCSS("a.css")
	c.PushCSS("b.css")
	c.PushCSS("a.css")
	c.PushJS("x.js")
	if !slices.Equal(c.CSS(), []string{"a.css", "b.css"}) || !slices.Equal(c.JS(), []string{"x.js"}) {
		t.Errorf("CSS() = %v, JS() = %v", c.CSS(), c.JS())
	}
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

func TestPipeline_StopsAtFirstError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	called := false
	p := New(nil,
		Pass{Name: "first", Run: func(ev []markdown.Event, _ *Context) ([]markdown.Event, error) { return nil, boom }},
		Pass{Name: "second", Run: func(ev []markdown.Event, _ *Context) ([]markdown.Event, error) {
			called = true
			return ev, nil
		}},
	)
	_, err := p.Run(context.Background(), nil, NewContext(Options{}))
	if !errors.Is(err, boom) || !strings.HasPrefix(err.Error(), "first: ") {
		t.Errorf("Run() error = %v, want boom annotated with the pass name", err)
	}
	if called {
		t.Error("pass after a failure ran")
	}
}

func TestPipeline_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, DefaultPasses()...).Run(ctx, nil, NewContext(Options{}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestPipeline_Full(t *testing.T) {
	t.Parallel()

	src := header + "# Title\n\nSee [notes](notes.md).\n\n## A\n\n| x |\n|---|\n| 1 |\n\n### B\n\n$e=mc^2$\n"
	events, c, err := run(t, src, Options{})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	body := markdown.RenderHTML(events)
	for _, want := range []string{
		`<h1>Title</h1>`,
		`<a href="notes.html">notes</a>`,
		`<h2 id="1">A</h2>`,
		`<h3 id="1.1">B</h3>`,
		`<div class="table-wrapper"><table>`,
		`</table>` + "\n" + `</div>`,
		`<span class="math math-inline">\(e=mc^2\)</span>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\n%s", want, body)
		}
	}

	if title, _ := c.Title(); title != "Title" {
		t.Errorf("Title() = %q, want Title", title)
	}
	if toc, _ := c.TOC(); toc != `<ul><li><a href="#1">A</a><ul><li><a href="#1.1">B</a></li></ul></li></ul>` {
		t.Errorf("TOC() = %q", toc)
	}
	if !slices.Contains(c.CSS(), DefaultKaTeXURL+"/katex.min.css") {
		t.Errorf("CSS() = %v, want the KaTeX stylesheet", c.CSS())
	}
}

// ---------------------------------------------------------------------------
// ReadHeader and DraftGate
// ---------------------------------------------------------------------------

func TestReadHeader(t *testing.T) {
	t.Parallel()

	src := "---\ncreate: 2024/01/02\nupdate: \"2024-03-04\"\ntag: solo\nflags: [crypto]\npassword: pw\nhighlight:\n  - delim: ['\\[\\[', '\\]\\]']\n    style: \"color: red\"\n---\nbody\n"
	c := NewContext(Options{})
	if _, err := ReadHeader(parse(t, src), c); err != nil {
		t.Fatalf("ReadHeader() unexpected error: %v", err)
	}

	create, _ := c.CreateDate()
	update, _ := c.UpdateDate()
	tags, _ := c.Tags()
	pw, _ := c.Password()
	rules, _ := c.Highlights()
	if create != "2024-01-02" || update != "2024-03-04" {
		t.Errorf("dates = %q, %q", create, update)
	}
	if !slices.Equal(tags, []string{"solo"}) {
		t.Errorf("tags = %v, want [solo]", tags)
	}
	if !c.HasFlag(FlagCrypto) || c.HasFlag(FlagDraft) {
		t.Errorf("flags wrong: crypto=%v draft=%v", c.HasFlag(FlagCrypto), c.HasFlag(FlagDraft))
	}
	if pw != "pw" || len(rules) != 1 {
		t.Fatalf("password = %q, %d rules", pw, len(rules))
	}
	if got := rules[0].Apply("x [[y]] z"); got != `x <span style="color: red">y</span> z` {
		t.Errorf("Apply() = %q", got)
	}
}

func TestReadHeader_Defaults(t *testing.T) {
	t.Parallel()

	c := NewContext(Options{})
	if _, err := ReadHeader(parse(t, "---\ncreate: 2024-01-01\nupdate: 2024-01-01\n---\n"), c); err != nil {
		t.Fatalf("ReadHeader() unexpected error: %v", err)
	}
	if tags, err := c.Tags(); err != nil || len(tags) != 0 {
		t.Errorf("Tags() = %v, %v; want empty and set", tags, err)
	}
	if _, err := c.Password(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Password() error = %v, want ErrMissingField", err)
	}
	if _, err := c.Highlights(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Highlights() error = %v, want ErrMissingField", err)
	}
}

func TestReadHeader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "no front matter", src: "# Title\n"},
		{name: "empty block", src: "---\n---\nbody\n"},
		{name: "malformed yaml", src: "---\ncreate: [\n---\n"},
		{name: "missing create", src: "---\nupdate: 2024-01-01\n---\n"},
		{name: "missing update", src: "---\ncreate: 2024-01-01\n---\n"},
		{name: "bad date", src: "---\ncreate: yesterday\nupdate: 2024-01-01\n---\n"},
		{name: "unknown flag", src: "---\ncreate: 2024-01-01\nupdate: 2024-01-01\nflags: [secret]\n---\n"},
		{name: "one delimiter", src: "---\ncreate: 2024-01-01\nupdate: 2024-01-01\nhighlights:\n  - delim: [\"x\"]\n    style: s\n---\n"},
		{name: "invalid delimiter regexp", src: "---\ncreate: 2024-01-01\nupdate: 2024-01-01\nhighlights:\n  - delim: ['*', 'x']\n    style: s\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := run(t, tt.src, Options{})
			if !errors.Is(err, ErrHeaderParse) {
				t.Errorf("Run() error = %v, want ErrHeaderParse", err)
			}
		})
	}
}

func TestDraftGate(t *testing.T) {
	t.Parallel()

	src := "---\ncreate: 2024-01-01\nupdate: 2024-01-01\nflags: [draft]\n---\n# Draft\n"

	t.Run("halts by default", func(t *testing.T) {
		t.Parallel()

		_, c, err := run(t, src, Options{})
		if err != nil {
			t.Fatalf("Run() unexpected error: %v", err)
		}
		if !c.Halted() {
			t.Fatal("draft did not halt the pipeline")
		}
		if _, err := c.Title(); !errors.Is(err, ErrMissingField) {
			t.Error("passes after the gate ran")
		}
	})

	t.Run("renders drafts when enabled", func(t *testing.T) {
		t.Parallel()

		_, c, err := run(t, src, Options{RenderDrafts: true})
		if err != nil {
			t.Fatalf("Run() unexpected error: %v", err)
		}
		if c.Halted() {
			t.Fatal("pipeline halted with drafts enabled")
		}
		if title, _ := c.Title(); title != "Draft" {
			t.Errorf("Title() = %q, want Draft", title)
		}
	})
}

// ---------------------------------------------------------------------------
// Content passes
// ---------------------------------------------------------------------------

func TestGetTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "first h1", src: "## Sub\n\n# One *two*\n\n# Three\n", want: "One two"},
		{name: "code in title", src: "# Use `go`\n", want: "Use go"},
		{name: "no h1", src: "## Sub\n", want: DefaultTitle},
		{name: "empty document", src: "", want: DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewContext(Options{})
			if _, err := GetTitle(parse(t, tt.src), c); err != nil {
				t.Fatalf("GetTitle() unexpected error: %v", err)
			}
			if got, _ := c.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinkAdjust(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dest string
		want string
	}{
		{"notes.md", "notes.html"},
		{"../dir/page.md", "../dir/page.html"},
		{"https://x.com/y.md", "https://x.com/y.md"},
		{"http://x.com/y.md", "http://x.com/y.md"},
		{"image.png", "image.png"},
		{"notes.md#part", "notes.md#part"},
	}

	for _, tt := range tests {
		events := []markdown.Event{{Kind: markdown.KindStart, Tag: markdown.TagLink, Dest: tt.dest}, markdown.End(markdown.TagLink)}
		out, err := LinkAdjust(events, NewContext(Options{}))
		if err != nil {
			t.Fatalf("LinkAdjust() unexpected error: %v", err)
		}
		if out[0].Dest != tt.want {
			t.Errorf("LinkAdjust(%q) = %q, want %q", tt.dest, out[0].Dest, tt.want)
		}
	}
}

func TestConvertImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "raster with alt and title",
			src:  "![A cat](cat.png \"Cat\")\n",
			want: `<figure><div class="zakki-scroll"><img loading="lazy" src="cat.png" alt="A cat" title="Cat"/></div><figcaption>A cat</figcaption></figure>`,
		},
		{
			name: "svg uses object",
			src:  "![Plot](plot.svg)\n",
			want: `<figure><div class="zakki-scroll"><object type="image/svg+xml" data="plot.svg"></object></div><figcaption>Plot</figcaption></figure>`,
		},
		{
			name: "no alt no caption",
			src:  "![](x.jpg)\n",
			want: `<figure><div class="zakki-scroll"><img loading="lazy" src="x.jpg"/></div></figure>`,
		},
		{
			name: "alt escaped",
			src:  "![say \"hi\" & bye](x.jpg)\n",
			want: `<figcaption>say &#34;hi&#34; &amp; bye</figcaption>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := ConvertImage(parse(t, tt.src), NewContext(Options{}))
			if err != nil {
				t.Fatalf("ConvertImage() unexpected error: %v", err)
			}
			if got := markdown.RenderHTML(out); !strings.Contains(got, tt.want) {
				t.Errorf("ConvertImage() = %q, want containing %q", got, tt.want)
			}
		})
	}
}

func TestConvertMath(t *testing.T) {
	t.Parallel()

	t.Run("display and inline", func(t *testing.T) {
		t.Parallel()

		c := NewContext(Options{Math: KaTeX{BaseURL: "/katex/"}})
		out, err := ConvertMath(parse(t, "$a<b$\n\n$$\n\\frac{1}{2}\n$$\n"), c)
		if err != nil {
			t.Fatalf("ConvertMath() unexpected error: %v", err)
		}
		got := markdown.RenderHTML(out)
		for _, want := range []string{
			`<span class="math math-inline">\(a&lt;b\)</span>`,
			`<span class="math math-display">\[\frac{1}{2}\]</span>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("ConvertMath() = %q, want containing %q", got, want)
			}
		}
		if !slices.Equal(c.CSS(), []string{"/katex/katex.min.css"}) || len(c.JS()) != 2 {
			t.Errorf("assets: css=%v js=%v", c.CSS(), c.JS())
		}
	})

	t.Run("no math no assets", func(t *testing.T) {
		t.Parallel()

		c := NewContext(Options{})
		if _, err := ConvertMath(parse(t, "plain $5 text\n"), c); err != nil {
			t.Fatalf("ConvertMath() unexpected error: %v", err)
		}
		if len(c.CSS()) != 0 || len(c.JS()) != 0 {
			t.Errorf("assets registered without math: %v %v", c.CSS(), c.JS())
		}
	})

	t.Run("blank display block", func(t *testing.T) {
		t.Parallel()

		events := []markdown.Event{{Kind: markdown.KindDisplayMath, Text: "\n"}}
		out, err := ConvertMath(events, NewContext(Options{}))
		if err != nil {
			t.Fatalf("ConvertMath() unexpected error: %v", err)
		}
		if got := markdown.RenderHTML(out); !strings.Contains(got, `<span class="math math-display">\[`) {
			t.Errorf("ConvertMath() = %q, want a display span", got)
		}
	})

	for _, tex := range []string{"\\frac{1}{2", "a}", "x\\"} {
		t.Run("rejects "+tex, func(t *testing.T) {
			t.Parallel()

			events := []markdown.Event{{Kind: markdown.KindInlineMath, Text: tex}}
			if _, err := ConvertMath(events, NewContext(Options{})); !errors.Is(err, ErrMathRender) {
				t.Errorf("ConvertMath(%q) error = %v, want ErrMathRender", tex, err)
			}
		})
	}
}

func TestHighlightCode_Rules(t *testing.T) {
	t.Parallel()

	c := NewContext(Options{})
	rules := []HighlightRule{
		{Delim: []string{`\[\[`, `\]\]`}, Style: "color: red"},
		{Delim: []string{"&lt;b&gt;", "&lt;/b&gt;"}, Style: "font-weight: bold"},
		{Delim: []string{`\$\(`, `\)`}, Style: "x$1"},
		{Delim: []string{`(?m)#\s*`, `$`}, Style: "color: gray"},
	}
	for i := range rules {
		if err := rules[i].compile(); err != nil {
			t.Fatalf("compile() unexpected error: %v", err)
		}
	}
	c.SetHighlights(rules)

	src := "```text\nif a < b && [[c]] {\n<b>bold</b> $(sub)\n# note\n```\n\n`[[inline]]`\n"
	out, err := HighlightCode(parse(t, src), c)
	if err != nil {
		t.Fatalf("HighlightCode() unexpected error: %v", err)
	}
	got := markdown.RenderHTML(out)

	for _, want := range []string{
		`if a &lt; b &amp;&amp; <span style="color: red">c</span> {`,
		`<span style="font-weight: bold">bold</span>`,
		`<span style="x$1">sub</span>`,
		`<span style="color: gray">note</span>`,
		`<code>[[inline]]</code>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HighlightCode() = %q, want containing %q", got, want)
		}
	}
}

func TestHighlightRule_Compile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		delim   []string
		wantErr bool
	}{
		{name: "escaped brackets", delim: []string{`\[\[`, `\]\]`}},
		{name: "character class", delim: []string{`[<{]`, `[>}]`}},
		{name: "dangling repeat", delim: []string{"*", "x"}, wantErr: true},
		{name: "empty close", delim: []string{"a", ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := HighlightRule{Delim: tt.delim, Style: "s"}
			if err := r.compile(); (err != nil) != tt.wantErr {
				t.Errorf("compile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHighlightRule_LineBound(t *testing.T) {
	t.Parallel()

	r := HighlightRule{Delim: []string{`\*\*`, `\*\*`}, Style: "s"}
	got := r.Apply("**a\nb**\n**c**")
	if want := "**a\nb**\n<span style=\"s\">c</span>"; got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

type fakeHighlighter struct{}

func (fakeHighlighter) Highlight(lang, code string) (string, bool) {
	if lang != "go" {
		return "", false
	}
	return "<span>" + strings.TrimSpace(code) + "</span>", true
}

func (fakeHighlighter) Stylesheet() string { return "hl.css" }

func TestHighlightCode_Highlighter(t *testing.T) {
	t.Parallel()

	c := NewContext(Options{Highlighter: fakeHighlighter{}})
	src := "```go\nx := 1\n```\n\n```zzz\ny\n```\n"
	out, err := HighlightCode(parse(t, src), c)
	if err != nil {
		t.Fatalf("HighlightCode() unexpected error: %v", err)
	}
	got := markdown.RenderHTML(out)
	if !strings.Contains(got, `<pre class="chroma"><code class="language-go"><span>x := 1</span></code></pre>`) {
		t.Errorf("known language not highlighted: %q", got)
	}
	if !strings.Contains(got, `<pre><code class="language-zzz">y`) {
		t.Errorf("unknown language changed: %q", got)
	}
	if !slices.Equal(c.CSS(), []string{"hl.css"}) {
		t.Errorf("CSS() = %v, want [hl.css]", c.CSS())
	}
}

func TestChromaHighlighter(t *testing.T) {
	t.Parallel()

	h := NewChromaHighlighter("")
	got, ok := h.Highlight("go", "package main\n")
	if !ok || !strings.Contains(got, "package") || !strings.Contains(got, `class="`) {
		t.Errorf("Highlight(go) = %q, %v", got, ok)
	}
	if _, ok := h.Highlight("no-such-language-xyz", "x"); ok {
		t.Error("unknown language reported as highlighted")
	}

	var css strings.Builder
	if err := h.WriteCSS(&css); err != nil || !strings.Contains(css.String(), ".chroma") {
		t.Errorf("WriteCSS() = %q, %v", css.String(), err)
	}
}

// ---------------------------------------------------------------------------
// Heading ids and TOC
// ---------------------------------------------------------------------------

func headingIDs(t *testing.T, src string) []string {
	t.Helper()
	out, err := AssignHeaderID(parse(t, src), NewContext(Options{}))
	if err != nil {
		t.Fatalf("AssignHeaderID() unexpected error: %v", err)
	}
	var ids []string
	for _, e := range out {
		if e.IsStart(markdown.TagHeading) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func TestAssignHeaderID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{name: "hierarchy", src: "# T\n## A\n### B\n## C\n", want: []string{"", "1", "1.1", "2"}},
		{name: "h1 resets", src: "## A\n# T\n## B\n", want: []string{"1", "", "1"}},
		{name: "deep", src: "## A\n### B\n#### C\n### D\n", want: []string{"1", "1.1", "1.1.1", "1.2"}},
		// A skipped level truncates the id: H4 right after H2 reuses "1".
		{name: "skipped level truncates", src: "## A\n#### B\n", want: []string{"1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := headingIDs(t, tt.src); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTOC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []TOCItem
		want  string
	}{
		{name: "empty", want: ""},
		{
			name:  "levels 2 3 3 2",
			items: []TOCItem{{"A", "1", 1}, {"B", "1.1", 2}, {"C", "1.2", 2}, {"D", "2", 1}},
			want:  `<ul><li><a href="#1">A</a><ul><li><a href="#1.1">B</a></li><li><a href="#1.2">C</a></li></ul></li><li><a href="#2">D</a></li></ul>`,
		},
		{
			name:  "escaped",
			items: []TOCItem{{"a<b", "1", 1}},
			want:  `<ul><li><a href="#1">a&lt;b</a></li></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderTOC(tt.items); got != tt.want {
				t.Errorf("RenderTOC() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTocBuild_SkipsTitle(t *testing.T) {
	t.Parallel()

	_, c, err := run(t, header+"# Title\n## A\n### B\n### C\n## D\n", Options{})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	toc, _ := c.TOC()
	want := `<ul><li><a href="#1">A</a><ul><li><a href="#1.1">B</a></li><li><a href="#1.2">C</a></li></ul></li><li><a href="#2">D</a></li></ul>`
	if toc != want {
		t.Errorf("TOC() = %q, want %q", toc, want)
	}
}

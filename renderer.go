package zakki

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"time"

	"github.com/alnah/go-zakki/internal/assets"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/dateutil"
	"github.com/alnah/go-zakki/internal/fileutil"
	"github.com/alnah/go-zakki/internal/layout"
	"github.com/alnah/go-zakki/internal/logfields"
	"github.com/alnah/go-zakki/internal/markdown"
	"github.com/alnah/go-zakki/internal/pagecrypt"
	"github.com/alnah/go-zakki/internal/pipeline"
	"github.com/alnah/go-zakki/internal/search"
)

// Document is one Markdown file and the page it renders to.
type Document struct {
	Source string // Markdown file
	Output string // HTML file
	Path   string // Output relative to the site root, slash-separated
}

// Renderer turns single documents into pages. It holds no per-document
// state and may be shared between goroutines.
type Renderer struct {
	site        layout.Site
	dateFormat  string
	loader      assets.AssetLoader
	parser      *markdown.Parser
	pipeline    *pipeline.Pipeline
	opts        pipeline.Options
	highlighter *pipeline.ChromaHighlighter
	layout      *layout.Layout
	indexer     *search.Indexer
	encryptor   *pagecrypt.Encryptor
	passwords   *pagecrypt.PasswordSource
	logger      *slog.Logger
}

// NewRenderer creates a Renderer for cfg. Returns an error wrapping
// ErrRendererSetup if the theme cannot be loaded.
func NewRenderer(cfg *config.Config, opts ...Option) (*Renderer, error) {
	s := newSettings(opts)

	loader := s.loader
	if loader == nil {
		resolver, err := assets.NewAssetResolver(cfg.ThemeDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRendererSetup, err)
		}
		loader = resolver
	}
	lay, err := layout.New(loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererSetup, err)
	}

	passwords := s.passwords
	if passwords == nil {
		passwords = pagecrypt.NewPasswordSource(cfg.Password, nil)
	}

	r := &Renderer{
		site:       layout.Site{Name: cfg.SiteName, Footer: cfg.Footer, Lang: cfg.Lang},
		dateFormat: cmp.Or(cfg.DateFormat, dateutil.DefaultDateFormat),
		loader:     loader,
		parser:     markdown.NewParser(),
		pipeline:   pipeline.New(s.logger, pipeline.DefaultPasses()...),
		layout:     lay,
		indexer:    search.NewIndexer(cfg.Search.FalsePositiveRate),
		encryptor:  s.encryptor,
		passwords:  passwords,
		logger:     s.logger,
	}
	r.opts = pipeline.Options{
		RenderDrafts: cfg.RenderDrafts,
		Math:         pipeline.KaTeX{BaseURL: cfg.Math.KaTeXURL},
	}
	if cfg.Highlight.Syntax {
		r.highlighter = pipeline.NewChromaHighlighter(cfg.Highlight.Style)
		r.opts.Highlighter = r.highlighter
	}
	return r, nil
}

// Render renders doc and writes its page. It returns nil metadata for a
// draft that was skipped.
func (r *Renderer) Render(ctx context.Context, doc Document) (*pipeline.PageMetadata, error) {
	start := time.Now()

	src, err := os.ReadFile(doc.Source) // #nosec G304 -- discovered source path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	events, err := r.parser.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	c := pipeline.NewContext(r.opts)
	c.SetOutputPath(doc.Path)
	if events, err = r.pipeline.Run(ctx, events, c); err != nil {
		return nil, err
	}
	if c.Halted() {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "draft skipped", logfields.Source(doc.Source))
		return nil, nil
	}

	body := markdown.RenderHTML(events)
	page, err := r.pageData(c, doc, body)
	if err != nil {
		return nil, err
	}

	var html string
	if c.HasFlag(pipeline.FlagCrypto) {
		if html, err = r.renderCrypto(c, page, body); err != nil {
			return nil, err
		}
		// Encrypted text stays out of the public index.
		c.SetBloomFilter(&search.Filter{})
	} else {
		if html, err = r.layout.Page(page); err != nil {
			return nil, err
		}
		filter, err := r.index(ctx, doc, html, body)
		if err != nil {
			return nil, err
		}
		c.SetBloomFilter(filter)
	}

	if err := fileutil.WriteFile(doc.Output, []byte(html)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	meta, err := c.Metadata()
	if err != nil {
		return nil, err
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "page rendered",
		logfields.Source(doc.Source), logfields.Output(doc.Output),
		logfields.Duration(time.Since(start)))
	return &meta, nil
}

// pageData assembles the template data of a rendered document.
func (r *Renderer) pageData(c *pipeline.Context, doc Document, body string) (layout.Page, error) {
	title, errTitle := c.Title()
	create, errCreate := c.CreateDate()
	update, errUpdate := c.UpdateDate()
	tags, errTags := c.Tags()
	toc, errTOC := c.TOC()
	if err := errors.Join(errTitle, errCreate, errUpdate, errTags, errTOC); err != nil {
		return layout.Page{}, err
	}

	create, err := dateutil.Display(create, r.dateFormat)
	if err != nil {
		return layout.Page{}, err
	}
	update, err = dateutil.Display(update, r.dateFormat)
	if err != nil {
		return layout.Page{}, err
	}

	pathToRoot := fileutil.PathToRoot(doc.Path)
	return layout.Page{
		Site:       r.site,
		PathToRoot: pathToRoot,
		Title:      title,
		Create:     create,
		Update:     update,
		Tags:       tags,
		CSS:        layout.AssetPaths(layout.DefaultCSS, c.CSS(), pathToRoot),
		JS:         layout.AssetPaths(layout.DefaultJS, c.JS(), pathToRoot),
		TOC:        template.HTML(toc),  // #nosec G203 -- built from escaped headings
		Body:       template.HTML(body), // #nosec G203 -- rendered Markdown
	}, nil
}

// renderCrypto encrypts the rendered body as is. The table of contents is
// left out since it would publish the headings.
func (r *Renderer) renderCrypto(c *pipeline.Context, page layout.Page, body string) (string, error) {
	override, _ := c.Password() // unset means no front matter override
	password, err := r.passwords.Resolve(override)
	if err != nil {
		return "", err
	}

	cipher, err := r.encryptor.Encrypt(password, []byte(body))
	if err != nil {
		return "", err
	}
	page.Cipher = cipher
	page.TOC, page.Body = "", ""
	return r.layout.Crypto(page)
}

// index builds the page's search filter. Themes whose page template lacks
// the content element get their body indexed instead.
func (r *Renderer) index(ctx context.Context, doc Document, html, body string) (*search.Filter, error) {
	filter, err := r.indexer.Index(html)
	if errors.Is(err, search.ErrNoContent) {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "page template has no content element, indexing body",
			logfields.Source(doc.Source))
		filter, err = r.indexer.Index(`<div id="` + r.indexer.ContentID + `">` + body + "</div>")
	}
	return filter, err
}

// Layout returns the parsed site templates.
func (r *Renderer) Layout() *layout.Layout { return r.layout }

// Site returns the values shared by every page.
func (r *Renderer) Site() layout.Site { return r.site }

// Assets returns the theme the renderer was built with.
func (r *Renderer) Assets() assets.AssetLoader { return r.loader }

// Highlighter returns the syntax highlighter, nil when disabled.
func (r *Renderer) Highlighter() *pipeline.ChromaHighlighter { return r.highlighter }

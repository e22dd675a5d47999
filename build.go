package zakki

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alnah/go-zakki/internal/assets"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/fileutil"
	"github.com/alnah/go-zakki/internal/logfields"
	"github.com/alnah/go-zakki/internal/pipeline"
)

// Manifest files written at the site root after every page is rendered.
const (
	MetadataManifest    = "metadata.js"
	BloomFilterManifest = "bloom_filter.js"
)

// Result is the outcome of one source file.
type Result struct {
	Source   string
	Output   string
	Meta     *pipeline.PageMetadata // nil for copies and skipped drafts
	Copied   bool
	Err      error
	Duration time.Duration
}

// Report summarizes a build.
type Report struct {
	Results  []Result
	Pages    int
	Drafts   int
	Copied   int
	Failed   int
	Duration time.Duration
}

// Err joins the per-file errors, each prefixed with its source path.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Source, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Builder builds a whole site: static assets, every document, then the
// manifests the client scripts read.
type Builder struct {
	cfg      *config.Config
	renderer *Renderer
	workers  int
	clean    bool
	logger   *slog.Logger
}

// NewBuilder creates a Builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	s := newSettings(opts)
	r, err := NewRenderer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:      cfg,
		renderer: r,
		workers:  ResolvePoolSize(cfg.Workers),
		clean:    s.clean,
		logger:   s.logger,
	}, nil
}

// Build renders the site. Every file is attempted; the returned error joins
// the failures and the Report lists them per file. Only setup failures
// (missing source directory, unwritable output) return a nil Report.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	src, dst := b.cfg.SourceDir, b.cfg.OutputDir

	if !fileutil.DirExists(src) {
		return nil, fmt.Errorf("%w: %s", ErrSourceDir, src)
	}
	if err := CheckOverlap(src, dst); err != nil {
		return nil, err
	}
	if b.clean {
		if err := Clean(dst); err != nil {
			return nil, err
		}
	}

	if err := b.writeStatic(); err != nil {
		return nil, err
	}

	docs, copies, err := Discover(src, dst, b.cfg.Exclude)
	if err != nil {
		return nil, err
	}
	b.logger.LogAttrs(ctx, slog.LevelInfo, "building site",
		logfields.Source(src), logfields.Output(dst),
		logfields.Count(len(docs)+len(copies)), logfields.Workers(b.workers))

	results := make([]Result, len(docs)+len(copies))
	runJobs(ctx, b.workers, len(results), func(i int) {
		if i < len(docs) {
			results[i] = b.renderOne(ctx, docs[i])
		} else {
			results[i] = copyOne(copies[i-len(docs)])
		}
	}, func(i int, err error) {
		if i < len(docs) {
			results[i] = Result{Source: docs[i].Source, Output: docs[i].Output, Err: err}
		} else {
			results[i] = Result{Source: copies[i-len(docs)].Source, Output: copies[i-len(docs)].Output, Err: err}
		}
	})

	// Aggregation runs only after every worker finished.
	report := summarize(results)
	if err := b.writeManifests(results); err != nil {
		return report, err
	}
	report.Duration = time.Since(start)

	b.logger.LogAttrs(ctx, slog.LevelInfo, "site built",
		logfields.Count(report.Pages), logfields.Failed(report.Failed),
		logfields.Duration(report.Duration))
	return report, report.Err()
}

func (b *Builder) renderOne(ctx context.Context, doc Document) Result {
	start := time.Now()
	meta, err := b.renderer.Render(ctx, doc)
	if err != nil {
		b.logger.LogAttrs(ctx, slog.LevelError, "render failed",
			logfields.Source(doc.Source), logfields.Error(err))
	}
	return Result{Source: doc.Source, Output: doc.Output, Meta: meta, Err: err, Duration: time.Since(start)}
}

func copyOne(f Document) Result {
	start := time.Now()
	res := Result{Source: f.Source, Output: f.Output, Copied: true}
	if err := fileutil.CopyFile(f.Source, f.Output); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrCopy, err)
	}
	res.Duration = time.Since(start)
	return res
}

func summarize(results []Result) *Report {
	report := &Report{Results: results}
	for _, r := range results {
		switch {
		case r.Err != nil:
			report.Failed++
		case r.Copied:
			report.Copied++
		case r.Meta == nil:
			report.Drafts++
		default:
			report.Pages++
		}
	}
	return report
}

// writeStatic writes the theme's static files, the syntax stylesheet and the
// index page.
func (b *Builder) writeStatic() error {
	dst := b.cfg.OutputDir
	loader := b.renderer.Assets()

	for _, name := range assets.StaticFiles {
		content, err := loader.LoadStatic(name)
		if err != nil {
			return err
		}
		if err := fileutil.WriteFile(filepath.Join(dst, name), content); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}

	if h := b.renderer.Highlighter(); h != nil {
		var css bytes.Buffer
		if err := h.WriteCSS(&css); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, pipeline.ChromaStylesheet, err)
		}
		if err := fileutil.WriteFile(filepath.Join(dst, pipeline.ChromaStylesheet), css.Bytes()); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}

	index, err := b.renderer.Layout().Index(b.renderer.Site())
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(filepath.Join(dst, "index.html"), []byte(index)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// writeManifests writes metadata.js and bloom_filter.js. Both list the
// rendered pages in the same order: newest update first, ties by path.
func (b *Builder) writeManifests(results []Result) error {
	pages := make([]pipeline.PageMetadata, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Meta != nil {
			pages = append(pages, *r.Meta)
		}
	}
	SortPages(pages)

	metadata, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", MetadataManifest, err)
	}
	filters := make([]json.RawMessage, len(pages))
	for i, p := range pages {
		if filters[i], err = json.Marshal(p.Bloom); err != nil {
			return fmt.Errorf("encoding %s: %w", BloomFilterManifest, err)
		}
	}
	blooms, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", BloomFilterManifest, err)
	}

	dst := b.cfg.OutputDir
	if err := fileutil.WriteFile(filepath.Join(dst, MetadataManifest), jsConst("METADATA", metadata)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := fileutil.WriteFile(filepath.Join(dst, BloomFilterManifest), jsConst("BLOOM_FILTER", blooms)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func jsConst(name string, value []byte) []byte {
	return []byte("const " + name + " = " + string(value) + ";\n")
}

// SortPages orders pages by update date, newest first, then by path.
// Dates are ISO strings, so they compare lexically.
func SortPages(pages []pipeline.PageMetadata) {
	slices.SortStableFunc(pages, func(a, b pipeline.PageMetadata) int {
		if c := strings.Compare(b.Update, a.Update); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

// Discover walks src and returns the Markdown documents to render and the
// other files to copy, both mapped below dst at the same relative path.
// Hidden entries, anything under dst and paths matching an exclude glob
// are skipped.
func Discover(src, dst string, exclude []string) (docs, copies []Document, err error) {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, nil, err
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
		if path == src {
			return nil
		}
		rel, err := fileutil.Rel(src, path)
		if err != nil {
			return err
		}

		if strings.HasPrefix(d.Name(), ".") || excluded(rel, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == absDst {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if fileutil.IsMarkdown(path) {
			out := fileutil.SwapExt(rel, ".html")
			docs = append(docs, Document{
				Source: path,
				Output: filepath.Join(dst, filepath.FromSlash(out)),
				Path:   out,
			})
			return nil
		}
		copies = append(copies, Document{
			Source: path,
			Output: filepath.Join(dst, filepath.FromSlash(rel)),
			Path:   rel,
		})
		return nil
	})
	return docs, copies, err
}

// excluded reports whether rel matches one of the globs. Patterns were
// validated with the config, so match errors cannot occur.
func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// CheckOverlap rejects an output directory that is, or contains, the
// source directory. Cleaning such a directory would delete the sources.
func CheckOverlap(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == absDst || strings.HasPrefix(absSrc, absDst+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrUnsafeOutput, dst)
	}
	return nil
}

// Clean removes the output directory. A missing directory is not an error.
func Clean(dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("%w: removing %s: %v", ErrWrite, dst, err)
	}
	return nil
}

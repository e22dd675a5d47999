// Package zakki builds a static HTML site from a tree of Markdown files.
//
// # Quick Start
//
// Load a configuration, build, and inspect the report:
//
//	cfg, err := config.LoadConfig("zakki")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err := zakki.NewBuilder(cfg, zakki.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := b.Build(ctx)
//
// Build keeps going after a document fails; err joins every failure and
// report.Results lists the outcome of each source file.
//
// # Build Stages
//
//  1. Static files, the syntax stylesheet and index.html are written.
//  2. Sources are discovered; Markdown files render, other files are copied.
//  3. Documents render in parallel: parse, run the passes, template, then
//     either index the page text into a Bloom filter or encrypt the body.
//  4. After every worker finished, metadata.js and bloom_filter.js list the
//     pages, newest update first.
//
// # Single Documents
//
// Renderer renders one document and returns its metadata, nil for a
// skipped draft:
//
//	r, err := zakki.NewRenderer(cfg)
//	meta, err := r.Render(ctx, zakki.Document{
//	    Source: "src/notes/go.md",
//	    Output: "dst/notes/go.html",
//	    Path:   "notes/go.html",
//	})
//
// # Encrypted Pages
//
// Documents flagged crypto are encrypted with AES-256-CBC under the
// SHA-256 of their password. The password comes from the front matter,
// then from the PasswordSource given with WithPasswordSource.
package zakki

package zakki_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-zakki"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/pipeline"
)

// Example builds a one-page site in a temporary directory.
func Example() {
	dir, err := os.MkdirTemp("", "zakki-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(dir, "src")
	cfg.OutputDir = filepath.Join(dir, "site")
	if err := os.MkdirAll(cfg.SourceDir, 0o755); err != nil {
		fmt.Println("error:", err)
		return
	}
	doc := "---\ncreate: 2024-01-31\nupdate: 2024-02-01\n---\n\n# Hello\n\nFirst page.\n"
	if err := os.WriteFile(filepath.Join(cfg.SourceDir, "hello.md"), []byte(doc), 0o644); err != nil {
		fmt.Println("error:", err)
		return
	}

	b, err := zakki.NewBuilder(cfg)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	report, err := b.Build(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(report.Pages, "page,", report.Failed, "failed")
	for _, r := range report.Results {
		fmt.Println(r.Meta.Title, r.Meta.Path)
	}
	// Output:
	// 1 page, 0 failed
	// Hello hello.html
}

// ExampleSortPages orders pages for the manifest: newest update first,
// ties broken by path.
func ExampleSortPages() {
	pages := []pipeline.PageMetadata{
		{Update: "2024-01-01", Path: "old.html"},
		{Update: "2024-03-01", Path: "b.html"},
		{Update: "2024-03-01", Path: "a.html"},
	}
	zakki.SortPages(pages)
	for _, p := range pages {
		fmt.Println(p.Update, p.Path)
	}
	// Output:
	// 2024-03-01 a.html
	// 2024-03-01 b.html
	// 2024-01-01 old.html
}

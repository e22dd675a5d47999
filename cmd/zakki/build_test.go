package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-zakki"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/dateutil"
	"github.com/alnah/go-zakki/internal/pagecrypt"
	"github.com/alnah/go-zakki/internal/pipeline"
)

func sampleReport() *zakki.Report {
	return &zakki.Report{
		Results: []zakki.Result{
			{Source: "src/a.md", Output: "dst/a.html", Meta: &pipeline.PageMetadata{Path: "a.html"}, Duration: 3 * time.Millisecond},
			{Source: "src/draft.md", Output: "dst/draft.html"},
			{Source: "src/img.png", Output: "dst/img.png", Copied: true},
			{Source: "src/bad.md", Output: "dst/bad.html", Err: pipeline.ErrHeaderParse},
		},
		Pages:    1,
		Drafts:   1,
		Copied:   1,
		Failed:   1,
		Duration: 12 * time.Millisecond,
	}
}

// ---------------------------------------------------------------------------
// TestPrintReport
// ---------------------------------------------------------------------------

func TestPrintReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		quiet       bool
		verbose     bool
		wantStdout  []string
		avoidStdout []string
	}{
		{
			name:        "default shows summary only",
			wantStdout:  []string{"1 pages, 1 drafts skipped, 1 files copied, 1 failed in 12ms"},
			avoidStdout: []string{"src/a.md"},
		},
		{
			name:       "verbose lists files",
			verbose:    true,
			wantStdout: []string{"src/a.md -> dst/a.html (3ms)", "skipped draft src/draft.md", "src/img.png -> dst/img.png"},
		},
		{
			name:        "quiet prints nothing",
			quiet:       true,
			verbose:     true,
			avoidStdout: []string{"pages", "src/a.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			failed := printReport(sampleReport(), tt.quiet, tt.verbose, env.Environment)

			if failed != 1 {
				t.Errorf("printReport() = %d, want 1", failed)
			}
			if !strings.Contains(env.stderr.String(), "FAILED src/bad.md") {
				t.Errorf("stderr = %q, failures always print", env.stderr)
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(env.stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, env.stdout)
				}
			}
			for _, avoid := range tt.avoidStdout {
				if strings.Contains(env.stdout.String(), avoid) {
					t.Errorf("stdout should not contain %q:\n%s", avoid, env.stdout)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildError
// ---------------------------------------------------------------------------

func TestBuildError(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		if err := buildError(context.Background(), &zakki.Report{}, nil); err != nil {
			t.Errorf("buildError() = %v, want nil", err)
		}
	})

	t.Run("failed documents carry a hint", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()
		err := buildError(context.Background(), report, report.Err())
		if !errors.Is(err, ErrDocumentsFailed) {
			t.Fatalf("buildError() = %v, want ErrDocumentsFailed", err)
		}
		if !strings.Contains(err.Error(), "1 of 4") || !strings.Contains(err.Error(), "hint:") {
			t.Errorf("buildError() = %q", err)
		}
	})

	t.Run("manifest failure", func(t *testing.T) {
		t.Parallel()

		err := buildError(context.Background(), &zakki.Report{}, zakki.ErrWrite)
		if !errors.Is(err, zakki.ErrWrite) || errors.Is(err, ErrDocumentsFailed) {
			t.Errorf("buildError() = %v, want the write error", err)
		}
	})

	t.Run("interrupted", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := buildError(ctx, &zakki.Report{Failed: 3}, context.Canceled)
		if !errors.Is(err, context.Canceled) || errors.Is(err, ErrDocumentsFailed) {
			t.Errorf("buildError() = %v, want an interruption", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestHintFor
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unknown", errors.New("boom"), ""},
		{"config not found", config.ErrConfigNotFound, "zakki init"},
		{"missing password", fmt.Errorf("a.md: %w", pagecrypt.ErrMissingPassword), "ZAKKI_PASSWORD"},
		{"header", pipeline.ErrHeaderParse, "create and update"},
		{"unsafe output", zakki.ErrUnsafeOutput, "outside sourceDir"},
		{"date format", fmt.Errorf("%w: dateFormat: %w", config.ErrInvalidConfig, dateutil.ErrInvalidDateFormat), "european"},
		{"write", zakki.ErrWrite, "writable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quiet     bool
		verbose   bool
		wantDebug bool
		wantWarn  bool
	}{
		{"default", false, false, false, true},
		{"verbose", false, true, true, true},
		{"quiet", true, false, false, false},
		{"quiet wins", true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			logger := newLogger(env.Stderr, tt.quiet, tt.verbose)
			logger.Debug("debug line")
			logger.Warn("warn line")

			out := env.stderr.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "warn line"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-zakki"
)

// runBuild builds the site once.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f, err := parseBuildFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, f.common.quiet, f.common.verbose)

	cfg, err := siteConfig(f.common.config, &f.site, logger)
	if err != nil {
		return err
	}
	b, err := newBuilder(cfg, f.clean, env, logger)
	if err != nil {
		return err
	}

	report, err := b.Build(ctx)
	if report == nil {
		return err
	}
	printReport(report, f.common.quiet, f.common.verbose, env)
	return buildError(ctx, report, err)
}

// runWatch builds the site, then rebuilds it on every change until
// interrupted.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	f, err := parseWatchFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	common := f.build.common
	logger := newLogger(env.Stderr, common.quiet, common.verbose)

	cfg, err := siteConfig(common.config, &f.build.site, logger)
	if err != nil {
		return err
	}
	b, err := newBuilder(cfg, f.build.clean, env, logger)
	if err != nil {
		return err
	}

	report, err := b.Build(ctx)
	if report == nil {
		return err
	}
	printReport(report, common.quiet, common.verbose, env)
	if err := buildError(ctx, report, err); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}

	if !common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", cfg.SourceDir)
	}
	return b.Watch(ctx, f.debounce, func(r *zakki.Report, err error) {
		if r == nil {
			fmt.Fprintf(env.Stderr, "rebuild failed: %v%s\n", err, hintFor(err))
			return
		}
		printReport(r, common.quiet, common.verbose, env)
	})
}

// buildError turns a finished build's error into the CLI error. Per-file
// failures wrap ErrDocumentsFailed and carry the hint of their cause.
func buildError(ctx context.Context, report *zakki.Report, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("build interrupted: %w", ctx.Err())
	case report.Failed == 0:
		return err
	}
	return fmt.Errorf("%w: %d of %d%s", ErrDocumentsFailed, report.Failed, len(report.Results), hintFor(err))
}

// printReport outputs build results using the environment's writers and
// returns the failure count.
func printReport(report *zakki.Report, quiet, verbose bool, env *Environment) int {
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Source, r.Err)
			continue
		}

		if !verbose || quiet {
			continue
		}

		if r.Meta == nil && !r.Copied {
			fmt.Fprintf(env.Stdout, "skipped draft %s\n", r.Source)
		} else {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Source, r.Output, r.Duration.Round(time.Millisecond))
		}
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "%d pages, %d drafts skipped, %d files copied, %d failed in %v\n",
			report.Pages, report.Drafts, report.Copied, report.Failed, report.Duration.Round(time.Millisecond))
	}

	return report.Failed
}

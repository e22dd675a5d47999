package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-zakki"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/dateutil"
	"github.com/alnah/go-zakki/internal/hints"
	"github.com/alnah/go-zakki/internal/pagecrypt"
	"github.com/alnah/go-zakki/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage           = errors.New("invalid usage")
	ErrDocumentsFailed = errors.New("some files failed")
)

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
	}
	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, rest, env)
	case "watch":
		err = runWatch(ctx, rest, env)
	case "clean":
		err = runClean(rest, env)
	case "init":
		err = runInit(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "zakki %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		err = fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// newLogger returns a text logger on w. Warnings are shown by default,
// debug logs with verbose and errors only with quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// siteConfig loads the config named by the flag or ZAKKI_CONFIG, falling
// back to ./zakki.yaml and then to the defaults. Environment variables and
// site flags (when non-nil) are applied on top before validation.
func siteConfig(name string, site *siteFlags, logger *slog.Logger) (*config.Config, error) {
	envCfg := loadEnvConfig()

	var cfg *config.Config
	var err error
	if name = cmp.Or(name, envCfg.ConfigPath); name != "" {
		cfg, err = config.LoadConfig(name)
	} else {
		cfg, err = config.LoadConfig(config.DefaultName)
		if errors.Is(err, config.ErrConfigNotFound) {
			logger.Debug("no config file, using defaults")
			cfg, err = config.DefaultConfig(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	if site != nil {
		applySiteFlags(site, cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySiteFlags applies the flags that were set.
func applySiteFlags(f *siteFlags, cfg *config.Config) {
	if f.source != "" {
		cfg.SourceDir = f.source
	}
	if f.output != "" {
		cfg.OutputDir = f.output
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	if f.drafts {
		cfg.RenderDrafts = true
	}
}

// newBuilder creates a Builder whose crypto pages fall back to the
// environment's prompt.
func newBuilder(cfg *config.Config, clean bool, env *Environment, logger *slog.Logger) (*zakki.Builder, error) {
	return zakki.NewBuilder(cfg,
		zakki.WithLogger(logger),
		zakki.WithClean(clean),
		zakki.WithPasswordSource(pagecrypt.NewPasswordSource(cfg.Password, env.Prompt)),
	)
}

// hintFor returns the hint matching the first known cause in err.
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.DefaultName)
	case errors.Is(err, pagecrypt.ErrMissingPassword):
		return hints.ForMissingPassword(envPassword)
	case errors.Is(err, pipeline.ErrHeaderParse):
		return hints.ForHeader()
	case errors.Is(err, zakki.ErrUnsafeOutput):
		return hints.ForUnsafeOutput()
	case errors.Is(err, dateutil.ErrInvalidDateFormat):
		return hints.ForDateFormat(slices.Collect(maps.Keys(dateutil.DatePresets)))
	case errors.Is(err, zakki.ErrWrite):
		return hints.ForOutputDirectory()
	}
	return ""
}

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-zakki"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags override the config for one build.
type siteFlags struct {
	source  string
	output  string
	workers int
	drafts  bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common commonFlags
	site   siteFlags
	clean  bool
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	build    buildFlags
	debounce time.Duration
}

// initFlags holds all flags for the init command.
type initFlags struct {
	theme bool
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSiteFlags adds config overrides to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVarP(&f.source, "source", "s", "", "source directory")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.drafts, "drafts", false, "render pages flagged draft")
}

func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	fs.BoolVar(&f.clean, "clean", false, "empty the output directory first")
}

// parseBuildFlags parses build command flags.
func parseBuildFlags(args []string, usage io.Writer) (*buildFlags, error) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	f := &buildFlags{}
	addBuildFlags(fs, f)
	fs.Usage = func() { printBuildUsage(usage) }

	if err := parse(fs, args, 0); err != nil {
		return nil, err
	}
	return f, nil
}

// parseWatchFlags parses watch command flags.
func parseWatchFlags(args []string, usage io.Writer) (*watchFlags, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	f := &watchFlags{}
	addBuildFlags(fs, &f.build)
	fs.DurationVar(&f.debounce, "debounce", zakki.DefaultDebounce, "quiet period before rebuilding")
	fs.Usage = func() { printWatchUsage(usage) }

	if err := parse(fs, args, 0); err != nil {
		return nil, err
	}
	return f, nil
}

// parseCleanFlags parses clean command flags.
func parseCleanFlags(args []string, usage io.Writer) (*commonFlags, error) {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	f := &commonFlags{}
	addCommonFlags(fs, f)
	fs.Usage = func() { printCleanUsage(usage) }

	if err := parse(fs, args, 0); err != nil {
		return nil, err
	}
	return f, nil
}

// parseInitFlags parses init command flags and returns the target directory.
func parseInitFlags(args []string, usage io.Writer) (*initFlags, string, error) {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	f := &initFlags{}
	fs.BoolVar(&f.theme, "theme", false, "export the default theme for editing")
	fs.Usage = func() { printInitUsage(usage) }

	if err := parse(fs, args, 1); err != nil {
		return nil, "", err
	}
	dir := "."
	if fs.NArg() == 1 {
		dir = fs.Arg(0)
	}
	return f, dir, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, usage io.Writer) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	fs.Usage = func() { printDoctorUsage(usage) }

	if err := parse(fs, args, 0); err != nil {
		return nil, err
	}
	return f, nil
}

// parse parses args and rejects more than maxArgs positional arguments.
// Parse errors wrap ErrUsage. -h prints the usage and returns flag.ErrHelp.
func parse(fs *flag.FlagSet, args []string, maxArgs int) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > maxArgs {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(maxArgs))
	}
	return nil
}

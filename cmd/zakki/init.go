package main

import (
	"fmt"

	"github.com/alnah/go-zakki"
	"github.com/alnah/go-zakki/internal/dateutil"
)

// runInit writes a starter site.
func runInit(args []string, env *Environment) error {
	f, dir, err := parseInitFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	created, err := zakki.Init(dir, env.Now().Format(dateutil.ISOLayout), f.theme)
	for _, path := range created {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintln(env.Stdout, "Nothing to do: site files already exist")
	}
	return nil
}

// runClean removes the output directory.
func runClean(args []string, env *Environment) error {
	f, err := parseCleanFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, f.quiet, f.verbose)

	cfg, err := siteConfig(f.config, nil, logger)
	if err != nil {
		return err
	}
	if err := zakki.CheckOverlap(cfg.SourceDir, cfg.OutputDir); err != nil {
		return err
	}
	if err := zakki.Clean(cfg.OutputDir); err != nil {
		return err
	}
	if !f.quiet {
		fmt.Fprintf(env.Stdout, "Removed %s\n", cfg.OutputDir)
	}
	return nil
}

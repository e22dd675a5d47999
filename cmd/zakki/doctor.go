package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/alnah/go-zakki"
	"github.com/alnah/go-zakki/internal/assets"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/fileutil"
	"github.com/alnah/go-zakki/internal/hints"
	"github.com/alnah/go-zakki/internal/layout"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// Password sources reported by doctor.
const (
	passwordConfig = "config"
	passwordEnv    = "environment"
	passwordPrompt = "prompt"
	passwordNone   = "none"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Theme    themeInfo  `json:"theme"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo holds the resolved site settings.
type configInfo struct {
	File         string `json:"file,omitempty"` // empty when defaults are used
	SourceDir    string `json:"source_dir"`
	SourceExists bool   `json:"source_exists"`
	OutputDir    string `json:"output_dir"`
	Workers      int    `json:"workers"`
	Password     string `json:"password_source"`
}

// themeInfo holds theme override results.
type themeInfo struct {
	Dir        string   `json:"dir,omitempty"`
	Overridden []string `json:"overridden,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
	CI   bool   `json:"ci"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	f, err := parseDoctorFlags(args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(f.config)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
			CI:   hints.IsInCI(),
		},
	}

	if cfg := checkConfig(result, configName); cfg != nil {
		checkDirectories(result, cfg)
		checkTheme(result, cfg.ThemeDir)
		checkPassword(result, cfg)
	}

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads the config the way build does.
func checkConfig(result *doctorResult, name string) *config.Config {
	envCfg := loadEnvConfig()
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		name = config.DefaultName
	}

	cfg, err := config.LoadConfig(name)
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && name == config.DefaultName:
		result.Warnings = append(result.Warnings, "No zakki.yaml found, using defaults")
		cfg = config.DefaultConfig()
	case err != nil:
		result.Errors = append(result.Errors, err.Error())
		return nil
	default:
		result.Config.File = name
	}

	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}
	result.Config.SourceDir = cfg.SourceDir
	result.Config.OutputDir = cfg.OutputDir
	result.Config.Workers = zakki.ResolvePoolSize(cfg.Workers)
	return cfg
}

// checkDirectories verifies the source exists and the output is safe to clean.
func checkDirectories(result *doctorResult, cfg *config.Config) {
	result.Config.SourceExists = fileutil.DirExists(cfg.SourceDir)
	if !result.Config.SourceExists {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Source directory not found: %s", cfg.SourceDir))
	}
	if err := zakki.CheckOverlap(cfg.SourceDir, cfg.OutputDir); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
}

// checkTheme lists the files a theme directory overrides and verifies the
// resulting templates parse.
func checkTheme(result *doctorResult, dir string) {
	if dir == "" {
		return
	}
	result.Theme.Dir = dir

	resolver, err := assets.NewAssetResolver(dir)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	custom, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}

	for _, name := range assets.StaticFiles {
		if _, err := custom.LoadStatic(name); err == nil {
			result.Theme.Overridden = append(result.Theme.Overridden, assets.StaticDir+"/"+name)
		} else if !errors.Is(err, assets.ErrStaticNotFound) {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	for _, name := range assets.TemplateNames {
		if _, err := custom.LoadTemplate(name); err == nil {
			result.Theme.Overridden = append(result.Theme.Overridden, assets.TemplatesDir+"/"+name+".html")
		} else if !errors.Is(err, assets.ErrTemplateNotFound) {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	if len(result.Theme.Overridden) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Theme directory %s overrides nothing", dir))
	}

	if _, err := layout.New(resolver); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
}

// checkPassword reports where crypto pages without a front matter password
// get theirs.
func checkPassword(result *doctorResult, cfg *config.Config) {
	switch {
	case os.Getenv(envPassword) != "":
		result.Config.Password = passwordEnv
	case cfg.Password != "":
		result.Config.Password = passwordConfig
	case !result.Env.CI && term.IsTerminal(int(os.Stdin.Fd())):
		result.Config.Password = passwordPrompt
	default:
		result.Config.Password = passwordNone
		result.Warnings = append(result.Warnings,
			"Crypto pages need a password in their front matter"+hints.ForMissingPassword(envPassword))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "zakki doctor")
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	if r.Config.File != "" {
		fmt.Fprintf(w, "  [OK] File: %s\n", r.Config.File)
	}
	if r.Config.SourceDir != "" {
		if r.Config.SourceExists {
			fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.SourceDir)
		} else {
			fmt.Fprintf(w, "  [ERROR] Source: %s (missing)\n", r.Config.SourceDir)
		}
		fmt.Fprintf(w, "  [OK] Output: %s\n", r.Config.OutputDir)
		fmt.Fprintf(w, "  [OK] Workers: %d\n", r.Config.Workers)
		fmt.Fprintf(w, "  [OK] Password: %s\n", r.Config.Password)
	}
	fmt.Fprintln(w)

	// Theme section
	if r.Theme.Dir != "" {
		fmt.Fprintln(w, "Theme")
		fmt.Fprintf(w, "  [OK] Directory: %s\n", r.Theme.Dir)
		for _, name := range r.Theme.Overridden {
			fmt.Fprintf(w, "  [OK] Overrides %s\n", name)
		}
		fmt.Fprintln(w)
	}

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

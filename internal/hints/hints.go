// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"slices"
	"strings"
)

// IsInCI detects a CI runner, where no terminal is available for prompts.
var IsInCI = func() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForMissingPassword returns hints for crypto pages without a password.
// On CI the environment variable is the only workable source.
func ForMissingPassword(envVar string) string {
	if IsInCI() {
		return format("no terminal on CI; set " + envVar)
	}
	var hints []string
	if os.Getenv(envVar) == "" {
		hints = append(hints, "set "+envVar)
	}
	hints = append(hints, "add password to the config or the page front matter")
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(name string) string {
	return format("run 'zakki init' or use --config /path/to/" + name + ".yaml")
}

// ForHeader returns hints for front matter errors.
func ForHeader() string {
	return format("front matter needs create and update dates, e.g. create: 2024-01-31")
}

// ForUnsafeOutput returns hints for an output directory overlapping the sources.
func ForUnsafeOutput() string {
	return format("choose an outputDir outside sourceDir")
}

// ForDateFormat returns hints listing the named date formats.
func ForDateFormat(presets []string) string {
	if len(presets) == 0 {
		return ""
	}
	presets = slices.Sorted(slices.Values(presets))
	return format("use tokens like YYYY-MM-DD or one of: " + strings.Join(presets, ", "))
}

// ForOutputDirectory returns hints for output directory write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

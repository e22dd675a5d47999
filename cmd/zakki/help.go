package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zakki <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render the site once")
	fmt.Fprintln(w, "  watch      Build, then rebuild on every source change")
	fmt.Fprintln(w, "  clean      Remove the output directory")
	fmt.Fprintln(w, "  init       Create a starter site")
	fmt.Fprintln(w, "  doctor     Check the config, theme and password setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'zakki help <command>' for details on a specific command.")
}

func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: zakki.yaml)")
	fmt.Fprintln(w, "  -s, --source <dir>        Source directory")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --drafts              Render pages flagged draft")
	fmt.Fprintln(w, "      --clean               Empty the output directory first")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ZAKKI_CONFIG, ZAKKI_PASSWORD, ZAKKI_SOURCE_DIR, ZAKKI_OUTPUT_DIR,")
	fmt.Fprintln(w, "  ZAKKI_THEME_DIR, ZAKKI_SITE_NAME, ZAKKI_WORKERS, ZAKKI_RENDER_DRAFTS")
	fmt.Fprintln(w, "  Variables in ./.env are loaded unless already set.")
	fmt.Fprintln(w, "  Priority: flags > environment > config file > defaults")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zakki build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every Markdown file of the source directory into the output")
	fmt.Fprintln(w, "directory, copy other files, then write the search manifests.")
	fmt.Fprintln(w, "Crypto pages without a password prompt for one once per build.")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zakki watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site, then rebuild whenever the source directory changes.")
	fmt.Fprintln(w, "Theme changes need a restart.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>        Quiet period before rebuilding (default: 200ms)")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printCleanUsage prints usage for the clean command.
func printCleanUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zakki clean [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Remove the configured output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zakki init [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create zakki.yaml and src/welcome.md in dir (default: current")
	fmt.Fprintln(w, "directory). Existing files are kept.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --theme               Export the default theme to dir/theme")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: zakki doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the config, the directories, the theme and where crypto pages")
	fmt.Fprintln(w, "get their password. Exits 1 when a check fails.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "clean":
		printCleanUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: zakki version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: zakki help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}

package main

import (
	"errors"
	"os"

	"github.com/alnah/go-zakki"
	"github.com/alnah/go-zakki/internal/config"
)

// Exit codes for the zakki CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Site built
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or theme
	ExitIO        = 3 // Source missing, output not writable
	ExitDocuments = 4 // Some documents failed to render
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Per-document failures (exit 4)
	if errors.Is(err, ErrDocumentsFailed) {
		return ExitDocuments
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, zakki.ErrUnsafeOutput) ||
		errors.Is(err, zakki.ErrRendererSetup) ||
		errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, zakki.ErrSourceDir) ||
		errors.Is(err, zakki.ErrRead) ||
		errors.Is(err, zakki.ErrWrite) ||
		errors.Is(err, zakki.ErrCopy) {
		return ExitIO
	}

	return ExitGeneral
}

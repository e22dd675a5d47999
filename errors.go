package zakki

import "errors"

// Sentinel errors for build operations.
var (
	ErrRead          = errors.New("failed to read source")
	ErrWrite         = errors.New("failed to write output")
	ErrCopy          = errors.New("failed to copy file")
	ErrSourceDir     = errors.New("source directory not found")
	ErrUnsafeOutput  = errors.New("output directory overlaps source directory")
	ErrRendererSetup = errors.New("failed to set up renderer")
)

//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop a build or a watch.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

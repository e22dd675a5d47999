//go:build windows

package main

import "os"

// shutdownSignals stop a build or a watch.
// syscall.SIGTERM is not delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}

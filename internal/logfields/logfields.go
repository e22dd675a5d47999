// Package logfields holds the canonical slog attribute keys used across the build.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names, shared so every package logs the same keys.
const (
	KeySource     = "source"
	KeyOutput     = "output"
	KeyPass       = "pass"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyWorkers    = "workers"
	KeyCount      = "count"
	KeyFailed     = "failed"
	KeyPath       = "path"
	KeyEvent      = "event"
	KeyError      = "error"
)

func Source(p string) slog.Attr   { return slog.String(KeySource, p) }
func Output(p string) slog.Attr   { return slog.String(KeyOutput, p) }
func Pass(name string) slog.Attr  { return slog.String(KeyPass, name) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func Workers(n int) slog.Attr     { return slog.Int(KeyWorkers, n) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }
func Failed(n int) slog.Attr      { return slog.Int(KeyFailed, n) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Event(op string) slog.Attr   { return slog.String(KeyEvent, op) }

// Duration reports d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

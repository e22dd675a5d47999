package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-zakki/internal/pagecrypt"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the password prompt of crypto pages.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Prompt pagecrypt.Prompter // nil disables prompting
}

// DefaultEnv returns the production environment, prompting on the terminal.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Prompt: pagecrypt.TerminalPrompt(os.Stdin, os.Stderr),
	}
}

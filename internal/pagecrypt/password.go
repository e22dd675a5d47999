package pagecrypt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Prompter asks the user for a password.
type Prompter func() (string, error)

// PasswordSource resolves the password of encrypted pages. The prompt runs
// at most once per source; its answer (or error) is shared by every caller.
type PasswordSource struct {
	configured string
	prompt     Prompter

	once     sync.Once
	prompted string
	err      error
}

// NewPasswordSource returns a source that prefers configured over prompt.
// prompt may be nil.
func NewPasswordSource(configured string, prompt Prompter) *PasswordSource {
	return &PasswordSource{configured: configured, prompt: prompt}
}

// Resolve returns override when set, else the configured password, else the
// prompted one.
func (s *PasswordSource) Resolve(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if s.configured != "" {
		return s.configured, nil
	}
	if s.prompt == nil {
		return "", ErrMissingPassword
	}

	s.once.Do(func() {
		s.prompted, s.err = s.prompt()
		if s.err == nil && s.prompted == "" {
			s.err = ErrMissingPassword
		}
	})
	return s.prompted, s.err
}

var errNotTerminal = errors.New("stdin is not a terminal")

// TerminalPrompt reads a password from in without echo, writing the prompt
// to out. It fails with ErrMissingPassword when in is not a terminal.
func TerminalPrompt(in *os.File, out io.Writer) Prompter {
	return func() (string, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("%w: %w", ErrMissingPassword, errNotTerminal)
		}
		fmt.Fprint(out, "Password for encrypted pages: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
}

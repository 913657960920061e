package report

import (
	"os"

	"golang.org/x/term"
)

// EnvNonInteractive forces non-interactive mode when set to 1.
const EnvNonInteractive = "NBAETL_NON_INTERACTIVE"

// ColorEnabled reports whether output to f should be styled: f must be a
// terminal, and neither NO_COLOR nor CI may be set.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether a human can answer prompts.
//
// Returns false if:
//   - NBAETL_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - stdin or stderr is not a terminal
func IsInteractive() bool {
	if os.Getenv(EnvNonInteractive) == "1" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

package output

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Compatible reports whether stderr can host a live canvas: it must be an
// interactive terminal, TERM must not name a dumb terminal, and ANSI escape
// processing must be available. Only stderr is checked, so the canvas still
// works when stdout is redirected to a file.
func Compatible() bool {
	return compatible(os.Stderr)
}

func compatible(f *os.File) bool {
	if !isTerminal(f) || IsDumbTerm() {
		return false
	}
	restore, err := enableANSI(f)
	if err != nil {
		return false
	}
	// The probe only checks; Blocking enables processing for real.
	_ = restore()
	return true
}

// IsDumbTerm reports whether TERM names a terminal without cursor control,
// such as Emacs' eshell.
func IsDumbTerm() bool {
	return strings.EqualFold(os.Getenv("TERM"), "dumb")
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// enableANSI turns on escape sequence processing (a no-op outside Windows)
// and returns a function that restores the previous console mode.
func enableANSI(f *os.File) (func() error, error) {
	return termenv.EnableVirtualTerminalProcessing(termenv.NewOutput(f))
}

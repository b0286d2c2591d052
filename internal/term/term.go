// Package term probes terminal capabilities once and hands them around
// as an explicit value, so rendering code never reads ambient state.
package term

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Capability describes what the output stream supports.
type Capability struct {
	// Interactive means the stream is an ANSI terminal whose cursor can
	// be repositioned for in-place redraws.
	Interactive bool
	// Color gates ANSI color use. Never true without Interactive.
	Color bool
}

// Detect probes a writer. Only real terminal files qualify; pipes,
// buffers and TERM=dumb degrade to non-interactive. NO_COLOR disables
// color but keeps in-place redraws.
func Detect(w io.Writer) Capability {
	f, ok := w.(*os.File)
	if !ok {
		return Capability{}
	}

	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return Capability{}
	}

	if os.Getenv("TERM") == "dumb" {
		return Capability{}
	}

	return Capability{
		Interactive: true,
		Color:       os.Getenv("NO_COLOR") == "",
	}
}

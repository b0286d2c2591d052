package table

import (
	"fmt"
	"io"
)

// PlainRenderer is the append-only fallback for streams that cannot
// redraw in place. Every update prints one line; cell state is still
// tracked so callers can inspect the final grid.
type PlainRenderer struct {
	w     io.Writer
	label string

	known map[cellKey]bool
	state map[cellKey]CellState
}

// NewPlain builds the line printer over the same fixed module and
// target set as the grid.
func NewPlain(w io.Writer, modules, targets []string, label string) *PlainRenderer {
	p := &PlainRenderer{
		w:     w,
		label: label,
		known: make(map[cellKey]bool, len(modules)*len(targets)),
		state: make(map[cellKey]CellState),
	}
	for _, m := range modules {
		for _, target := range targets {
			p.known[cellKey{m, target}] = true
		}
	}
	return p
}

// Draw prints the run header once.
func (p *PlainRenderer) Draw() {
	fmt.Fprintf(p.w, "config: %s\n", p.label)
}

// Update prints one status line per event. Unknown pairs are ignored.
func (p *PlainRenderer) Update(module, target string, state CellState) {
	key := cellKey{module, target}
	if !p.known[key] {
		return
	}
	p.state[key] = state

	symbol := plainSymbol(state)
	var status string
	switch state {
	case StateRunning:
		status = "running"
	case StateOK:
		status = "ok"
	case StateFail:
		status = "fail"
	default:
		return
	}
	fmt.Fprintf(p.w, "%s %s/%s [%s]\n", symbol, module, target, status)
}

// State returns the tracked state of one cell.
func (p *PlainRenderer) State(module, target string) CellState {
	return p.state[cellKey{module, target}]
}

// Compile-time verification that PlainRenderer implements Renderer
var _ Renderer = (*PlainRenderer)(nil)

// Package table renders the modules×targets execution grid.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/embedx/targetman/internal/term"
)

// CellState is the display state of one (module, target) cell.
type CellState int

const (
	StateEmpty CellState = iota
	StateRunning
	StateOK
	StateFail
	// StateMissing marks targets not available for a module. Set once
	// when the grid is drawn; Update never transitions it.
	StateMissing
)

const (
	symbolRunning = "▶"
	symbolOK      = "✔"
	symbolFail    = "✖"
	symbolMissing = "-"

	minTargetColWidth = 4
	colPadding        = 2
)

// Renderer is the progress surface the runner reports into. Two
// implementations exist: the live ANSI grid and a plain line printer
// for non-interactive streams.
type Renderer interface {
	// Draw renders the initial state once.
	Draw()
	// Update records a state change for one cell and refreshes the
	// display. Pairs outside the fixed set given at construction are
	// ignored.
	Update(module, target string, state CellState)
}

// NewRenderer selects the grid or the plain printer based on the
// stream's capability.
func NewRenderer(w io.Writer, cap term.Capability, modules, targets []string, label string) Renderer {
	if cap.Interactive {
		return New(w, cap, modules, targets, label)
	}
	return NewPlain(w, modules, targets, label)
}

// Table is the live ANSI implementation: after the initial Draw it
// repositions the cursor to rewrite single rows in place.
type Table struct {
	w   io.Writer
	cap term.Capability

	modules []string
	targets []string
	label   string

	rowIndex map[string]int
	colIndex map[string]int

	applicable map[string]map[string]bool
	state      map[cellKey]CellState

	moduleColWidth  int
	targetColWidths []int

	styleRunning lipgloss.Style
	styleOK      lipgloss.Style
	styleFail    lipgloss.Style
	styleTitle   lipgloss.Style

	drawn bool
}

type cellKey struct {
	module string
	target string
}

// New builds the grid for a fixed module and target set. Targets not
// marked applicable render as the missing symbol permanently.
func New(w io.Writer, cap term.Capability, modules, targets []string, label string) *Table {
	t := &Table{
		w:          w,
		cap:        cap,
		modules:    modules,
		targets:    targets,
		label:      label,
		rowIndex:   make(map[string]int, len(modules)),
		colIndex:   make(map[string]int, len(targets)),
		applicable: make(map[string]map[string]bool, len(modules)),
		state:      make(map[cellKey]CellState),
	}

	for i, m := range modules {
		t.rowIndex[m] = i
	}
	for i, target := range targets {
		t.colIndex[target] = i
	}

	t.moduleColWidth = runewidth.StringWidth("MODULE")
	for _, m := range modules {
		if w := runewidth.StringWidth(m); w > t.moduleColWidth {
			t.moduleColWidth = w
		}
	}
	t.moduleColWidth += colPadding

	t.targetColWidths = make([]int, len(targets))
	for i, target := range targets {
		w := runewidth.StringWidth(target)
		if w < minTargetColWidth {
			w = minTargetColWidth
		}
		t.targetColWidths[i] = w + colPadding
	}

	r := lipgloss.NewRenderer(w)
	if cap.Color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	t.styleRunning = r.NewStyle().Foreground(lipgloss.Color("3"))
	t.styleOK = r.NewStyle().Foreground(lipgloss.Color("2"))
	t.styleFail = r.NewStyle().Foreground(lipgloss.Color("1"))
	t.styleTitle = r.NewStyle().Bold(true)

	return t
}

// MarkApplicable records which targets exist for a module. Must be
// called before Draw; unmarked cells become missing.
func (t *Table) MarkApplicable(module string, targets []string) {
	set := make(map[string]bool, len(targets))
	for _, target := range targets {
		set[target] = true
	}
	t.applicable[module] = set
}

// State returns the tracked state of one cell.
func (t *Table) State(module, target string) CellState {
	return t.state[cellKey{module, target}]
}

// Draw renders the full grid once: border, title row, header, separator,
// one row per module, bottom border.
func (t *Table) Draw() {
	for _, m := range t.modules {
		for _, target := range t.targets {
			if !t.applicable[m][target] {
				t.state[cellKey{m, target}] = StateMissing
			}
		}
	}

	fmt.Fprintln(t.w, t.borderFull("┌", "┐"))
	fmt.Fprintln(t.w, t.titleRow())
	fmt.Fprintln(t.w, t.borderColumns("├", "┬", "┤"))
	fmt.Fprintln(t.w, t.headerRow())
	fmt.Fprintln(t.w, t.borderColumns("├", "┼", "┤"))
	for _, m := range t.modules {
		fmt.Fprintln(t.w, t.formatRow(m))
	}
	fmt.Fprintln(t.w, t.borderColumns("└", "┴", "┘"))

	t.drawn = true
}

// Update mutates one cell and rewrites that module's row in place.
// Unknown pairs and cells fixed as missing are no-ops on display,
// though unknown pairs are not tracked at all.
func (t *Table) Update(module, target string, state CellState) {
	row, okRow := t.rowIndex[module]
	_, okCol := t.colIndex[target]
	if !okRow || !okCol {
		return
	}

	key := cellKey{module, target}
	if t.state[key] == StateMissing {
		return
	}
	t.state[key] = state

	if !t.cap.Interactive || !t.drawn {
		return
	}

	// The cursor sits below the bottom border; the module's row is
	// (rows below it) + 1 lines up.
	linesUp := len(t.modules) - row + 1

	fmt.Fprint(t.w, "\x1b7")
	fmt.Fprintf(t.w, "\x1b[%dA", linesUp)
	fmt.Fprint(t.w, "\r\x1b[2K")
	fmt.Fprint(t.w, t.formatRow(module))
	fmt.Fprint(t.w, "\x1b8")
}

func (t *Table) symbol(state CellState) string {
	switch state {
	case StateRunning:
		return t.styleRunning.Render(symbolRunning)
	case StateOK:
		return t.styleOK.Render(symbolOK)
	case StateFail:
		return t.styleFail.Render(symbolFail)
	case StateMissing:
		return symbolMissing
	default:
		return ""
	}
}

// cell centers text in width; odd padding remainder goes to the right.
// Width math uses the unstyled text so ANSI sequences never skew it.
func cell(plain, styled string, width int) string {
	visible := runewidth.StringWidth(plain)
	if visible >= width {
		return styled
	}
	pad := width - visible
	left := pad / 2
	right := pad - left
	return strings.Repeat(" ", left) + styled + strings.Repeat(" ", right)
}

func (t *Table) innerWidth() int {
	width := t.moduleColWidth
	for _, w := range t.targetColWidths {
		width += 1 + w
	}
	return width
}

func (t *Table) borderFull(left, right string) string {
	return left + strings.Repeat("─", t.innerWidth()) + right
}

func (t *Table) borderColumns(left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	b.WriteString(strings.Repeat("─", t.moduleColWidth))
	for _, w := range t.targetColWidths {
		b.WriteString(mid)
		b.WriteString(strings.Repeat("─", w))
	}
	b.WriteString(right)
	return b.String()
}

func (t *Table) titleRow() string {
	title := "config: " + t.label
	return "│" + cell(title, t.styleTitle.Render(title), t.innerWidth()) + "│"
}

func (t *Table) headerRow() string {
	var b strings.Builder
	b.WriteString("│")
	b.WriteString(cell("MODULE", "MODULE", t.moduleColWidth))
	for i, target := range t.targets {
		b.WriteString("│")
		b.WriteString(cell(target, target, t.targetColWidths[i]))
	}
	b.WriteString("│")
	return b.String()
}

func (t *Table) formatRow(module string) string {
	var b strings.Builder
	b.WriteString("│")
	b.WriteString(module)
	if pad := t.moduleColWidth - runewidth.StringWidth(module); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	for i, target := range t.targets {
		state := t.state[cellKey{module, target}]
		b.WriteString("│")
		b.WriteString(cell(plainSymbol(state), t.symbol(state), t.targetColWidths[i]))
	}
	b.WriteString("│")
	return b.String()
}

func plainSymbol(state CellState) string {
	switch state {
	case StateRunning:
		return symbolRunning
	case StateOK:
		return symbolOK
	case StateFail:
		return symbolFail
	case StateMissing:
		return symbolMissing
	default:
		return ""
	}
}

// Compile-time verification that Table implements Renderer
var _ Renderer = (*Table)(nil)

package diopter

import (
	"fmt"
	"strconv"
)

// Focus is the addressed cell plus the digit buffer typed into it.
type Focus struct {
	Side     Side
	SphIndex int
	CylIndex int
	Pending  string
}

// CommitAction tells the caller how a keystroke changed the focused cell's
// committed value.
type CommitAction int

const (
	CommitNone CommitAction = iota
	// CommitSet carries a new positive value for the focused cell.
	CommitSet
	// CommitClear removes the focused cell's committed value.
	CommitClear
)

// Commit is the write-through effect of a Digit or Backspace keystroke.
type Commit struct {
	Action CommitAction
	Cell   Cell
	Value  int
}

// Navigator is the keyboard state machine over one grid. It is either
// unfocused or focused on exactly one cell. Methods are meant for a
// single-threaded event loop: one keystroke at a time, no concurrent callers.
type Navigator struct {
	grid  Grid
	focus *Focus
}

// NewNavigator returns an unfocused navigator over grid.
func NewNavigator(grid Grid) *Navigator {
	return &Navigator{grid: grid}
}

// Grid returns the geometry the navigator walks.
func (n *Navigator) Grid() Grid {
	return n.grid
}

// Focused returns the current focus; ok is false when unfocused.
func (n *Navigator) Focused() (Focus, bool) {
	if n.focus == nil {
		return Focus{}, false
	}
	return *n.focus, true
}

// Cell returns the currently focused cell.
func (n *Navigator) Cell() (Cell, bool) {
	if n.focus == nil {
		return Cell{}, false
	}
	c, _ := n.grid.Cell(n.focus.Side, n.focus.SphIndex, n.focus.CylIndex)
	return c, true
}

// Activate focuses the addressed cell with an empty digit buffer. An address
// outside the grid leaves the machine unchanged.
func (n *Navigator) Activate(side Side, sphIndex, cylIndex int) error {
	if _, ok := n.grid.Cell(side, sphIndex, cylIndex); !ok {
		return fmt.Errorf("activate: cell %s[%d,%d] outside grid", side, sphIndex, cylIndex)
	}
	n.focus = &Focus{Side: side, SphIndex: sphIndex, CylIndex: cylIndex}
	return nil
}

// Cancel drops focus and any uncommitted digits. Values already committed by
// earlier keystrokes stay committed.
func (n *Navigator) Cancel() {
	n.focus = nil
}

// MoveRow moves focus delta rows down (negative is up), clamped to the side's
// SPH axis. The digit buffer resets; what it committed stays committed.
func (n *Navigator) MoveRow(delta int) {
	if n.focus == nil {
		return
	}
	rows := n.grid.Rows(n.focus.Side)
	n.focus.SphIndex = clamp(n.focus.SphIndex+delta, 0, len(rows)-1)
	n.focus.Pending = ""
}

// MoveCol moves focus delta columns right (negative is left). The two sides
// form a ring over the shared CYL axis: walking off either end of a row
// continues on the same row of the opposite side, wrapping as often as delta
// requires. When the opposite side has fewer rows the row index clamps to its
// last row.
func (n *Navigator) MoveCol(delta int) {
	if n.focus == nil || len(n.grid.Cols()) == 0 {
		return
	}
	cols := len(n.grid.Cols())
	idx := n.focus.CylIndex + delta
	side := n.focus.Side
	for idx < 0 || idx >= cols {
		if idx < 0 {
			idx += cols
		} else {
			idx -= cols
		}
		side = side.Other()
	}
	rows := n.grid.Rows(side)
	n.focus.Side = side
	n.focus.CylIndex = idx
	n.focus.SphIndex = clamp(n.focus.SphIndex, 0, len(rows)-1)
	n.focus.Pending = ""
}

// ToggleSide jumps to the same address on the opposite panel, clamping the
// row when that panel is shorter.
func (n *Navigator) ToggleSide() {
	if n.focus == nil {
		return
	}
	side := n.focus.Side.Other()
	rows := n.grid.Rows(side)
	n.focus.Side = side
	n.focus.SphIndex = clamp(n.focus.SphIndex, 0, len(rows)-1)
	n.focus.Pending = ""
}

// Digit appends one typed digit to the buffer and commits immediately: every
// keystroke whose buffer parses to a positive integer overwrites the focused
// cell's value. Non-digit bytes and buffers that do not yet parse positive
// ("0") commit nothing.
func (n *Navigator) Digit(b byte) (Commit, bool) {
	if n.focus == nil || b < '0' || b > '9' {
		return Commit{}, false
	}
	n.focus.Pending += string(b)
	v, err := strconv.Atoi(n.focus.Pending)
	if err != nil || v <= 0 {
		return Commit{}, false
	}
	cell, _ := n.Cell()
	return Commit{Action: CommitSet, Cell: cell, Value: v}, true
}

// Backspace removes the last buffered digit and recommits what remains. An
// emptied buffer commits nothing, so the last committed value survives; only
// backspacing on an already empty buffer clears the cell's committed value.
func (n *Navigator) Backspace() (Commit, bool) {
	if n.focus == nil {
		return Commit{}, false
	}
	cell, _ := n.Cell()
	if n.focus.Pending == "" {
		return Commit{Action: CommitClear, Cell: cell}, true
	}
	n.focus.Pending = n.focus.Pending[:len(n.focus.Pending)-1]
	if v, err := strconv.Atoi(n.focus.Pending); err == nil && v > 0 {
		return Commit{Action: CommitSet, Cell: cell, Value: v}, true
	}
	return Commit{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

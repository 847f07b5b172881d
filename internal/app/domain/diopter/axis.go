package diopter

import (
	"fmt"
	"math"
)

// Side identifies one of the two mirrored SPH panels of the grid.
type Side int

const (
	// NearSighted covers SPH values at or below zero.
	NearSighted Side = iota
	// FarSighted covers SPH values above zero.
	FarSighted
)

func (s Side) String() string {
	if s == FarSighted {
		return "farsighted"
	}
	return "nearsighted"
}

// Other returns the opposite panel.
func (s Side) Other() Side {
	if s == NearSighted {
		return FarSighted
	}
	return NearSighted
}

// Axis is an ordered run of grid values.
type Axis []Value

// NewAxis generates the inclusive sequence from first to last, walking toward
// last in quarter-unit style increments of step regardless of step's sign.
// Every element passes through Round so repeated addition cannot drift.
func NewAxis(first, last, step float64) Axis {
	if step == 0 {
		return Axis{Round(first)}
	}
	step = math.Abs(step)
	if last < first {
		step = -step
	}
	var axis Axis
	for i := 0; ; i++ {
		v := Round(first + float64(i)*step)
		if step > 0 && float64(v) > last+1e-9 {
			break
		}
		if step < 0 && float64(v) < last-1e-9 {
			break
		}
		axis = append(axis, v)
	}
	return axis
}

// Cell is one addressable position of the two-panel matrix.
type Cell struct {
	Side Side
	Sph  Value
	Cyl  Value
}

// Key returns the cell's canonical key.
func (c Cell) Key() Key {
	return KeyOf(c.Sph, c.Cyl)
}

// Grid is the two-panel SPH x CYL matrix. Each side carries its own SPH axis;
// both sides share one CYL axis, which is what makes horizontal movement a
// ring across the sides.
type Grid struct {
	rows map[Side]Axis
	cols Axis
}

// NewGrid builds a grid from the per-side SPH axes and the shared CYL axis.
// It panics when two cells collide on the same key: every selection and
// reconciliation structure is keyed by cell, so a collision is a codec defect
// rather than a recoverable condition.
func NewGrid(near, far, cyl Axis) Grid {
	g := Grid{rows: map[Side]Axis{NearSighted: near, FarSighted: far}, cols: cyl}
	seen := make(map[Key]struct{}, (len(near)+len(far))*len(cyl))
	for _, rows := range g.rows {
		for _, sph := range rows {
			for _, c := range cyl {
				k := KeyOf(sph, c)
				if _, dup := seen[k]; dup {
					panic(fmt.Sprintf("diopter: duplicate cell key %s", k))
				}
				seen[k] = struct{}{}
			}
		}
	}
	return g
}

// Rows returns the SPH axis of one side.
func (g Grid) Rows(side Side) Axis {
	return g.rows[side]
}

// Cols returns the shared CYL axis.
func (g Grid) Cols() Axis {
	return g.cols
}

// Cell resolves an index pair on one side; ok is false when either index lies
// outside the grid.
func (g Grid) Cell(side Side, sphIndex, cylIndex int) (Cell, bool) {
	rows := g.rows[side]
	if sphIndex < 0 || sphIndex >= len(rows) || cylIndex < 0 || cylIndex >= len(g.cols) {
		return Cell{}, false
	}
	return Cell{Side: side, Sph: rows[sphIndex], Cyl: g.cols[cylIndex]}, true
}

// Contains reports whether the key addresses a cell of this grid.
func (g Grid) Contains(k Key) bool {
	sph, cyl, err := k.Values()
	if err != nil {
		return false
	}
	side := NearSighted
	if sph > 0 {
		side = FarSighted
	}
	return indexOf(g.rows[side], sph) >= 0 && indexOf(g.cols, cyl) >= 0
}

func indexOf(axis Axis, v Value) int {
	for i, a := range axis {
		if a == v {
			return i
		}
	}
	return -1
}

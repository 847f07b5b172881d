package diopter

import "fmt"

// DragMode fixes what a drag gesture does to every cell it touches. The mode
// is decided once from the starting cell's membership before the gesture and
// never changes mid-drag.
type DragMode int

const (
	DragSelect DragMode = iota
	DragDeselect
)

// Selection is an immutable map from cell key to a signed per-cell value: a
// price adjustment in the variant editor, a quantity in order entry. Every
// operation returns a new Selection and callers replace their copy wholesale,
// so a half-applied gesture can never be observed.
type Selection struct {
	values map[Key]int
	locked map[Key]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{values: map[Key]int{}, locked: map[Key]struct{}{}}
}

// NewBaseline seeds a selection from already persisted cells and locks them:
// a locked key can be repriced but never removed from the selection.
func NewBaseline(existing map[Key]int) Selection {
	s := Selection{
		values: make(map[Key]int, len(existing)),
		locked: make(map[Key]struct{}, len(existing)),
	}
	for k, v := range existing {
		s.values[k] = v
		s.locked[k] = struct{}{}
	}
	return s
}

// locked is never mutated after construction, so clones share it.
func (s Selection) clone() Selection {
	next := Selection{
		values: make(map[Key]int, len(s.values)+1),
		locked: s.locked,
	}
	for k, v := range s.values {
		next.values[k] = v
	}
	return next
}

// Has reports whether k is selected.
func (s Selection) Has(k Key) bool {
	_, ok := s.values[k]
	return ok
}

// Value returns k's per-cell value and whether k is selected.
func (s Selection) Value(k Key) (int, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Locked reports whether k came from the persisted baseline.
func (s Selection) Locked(k Key) bool {
	_, ok := s.locked[k]
	return ok
}

// Len returns the number of selected cells.
func (s Selection) Len() int {
	return len(s.values)
}

// Values returns a copy of the key to value map, safe to hand across the
// persistence boundary.
func (s Selection) Values() map[Key]int {
	out := make(map[Key]int, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set selects k with value v, overwriting any previous value.
func (s Selection) Set(k Key, v int) Selection {
	next := s.clone()
	next.values[k] = v
	return next
}

// Remove deselects k. Locked keys stay selected: removing a persisted cell is
// not part of the editing flow, so for them the call is a no-op.
func (s Selection) Remove(k Key) Selection {
	if !s.Has(k) || s.Locked(k) {
		return s
	}
	next := s.clone()
	delete(next.values, k)
	return next
}

// Toggle flips k's membership, selecting it with def when absent.
func (s Selection) Toggle(k Key, def int) Selection {
	if s.Has(k) {
		return s.Remove(k)
	}
	return s.Set(k, def)
}

// DragModeFor picks the gesture mode from the starting cell's pre-gesture
// membership: dragging from an unselected cell selects, from a selected cell
// deselects.
func DragModeFor(s Selection, start Key) DragMode {
	if s.Has(start) {
		return DragDeselect
	}
	return DragSelect
}

// Drag applies one gesture step over keys. In select mode, cells not yet
// selected are added with their default value and already selected cells keep
// theirs; in deselect mode cells are removed, locked ones excepted.
func (s Selection) Drag(keys []Key, mode DragMode, defaultFor func(Key) int) Selection {
	next := s.clone()
	for _, k := range keys {
		switch mode {
		case DragSelect:
			if _, ok := next.values[k]; !ok {
				next.values[k] = defaultFor(k)
			}
		case DragDeselect:
			if _, lk := next.locked[k]; lk {
				continue
			}
			delete(next.values, k)
		}
	}
	return next
}

// BulkSet overwrites the value of every currently selected key in keys;
// unselected keys are left alone.
func (s Selection) BulkSet(keys []Key, v int) Selection {
	next := s.clone()
	for _, k := range keys {
		if _, ok := next.values[k]; ok {
			next.values[k] = v
		}
	}
	return next
}

// ApplyRules reprices every selected cell from the rule table by its CYL
// band, first matching rule winning.
func (s Selection) ApplyRules(rules Rules) (Selection, error) {
	next := s.clone()
	for k := range next.values {
		_, cyl, err := k.Values()
		if err != nil {
			return s, fmt.Errorf("selection key %s: %w", k, err)
		}
		next.values[k] = rules.AdjustmentFor(cyl)
	}
	return next, nil
}

package diopter

import "sort"

// Existing is a persisted cell as the reconciler sees it.
type Existing struct {
	ID    int64
	Value int
}

// Creation is a selected cell that has no persisted counterpart yet.
type Creation struct {
	Key   Key
	Value int
}

// Update is a persisted cell whose submitted value differs from the stored
// one.
type Update struct {
	ID    int64
	Key   Key
	Value int
}

// Diff is the partition of existing and selected cells produced by Reconcile.
type Diff struct {
	ToCreate  []Creation
	ToUpdate  []Update
	Unchanged []Key
}

// Empty reports whether applying the diff would touch the store at all.
func (d Diff) Empty() bool {
	return len(d.ToCreate) == 0 && len(d.ToUpdate) == 0
}

// Reconcile partitions the union of the persisted cell set and a submitted
// selection: selected keys absent from existing become creations, present
// keys with a different value become updates, and the rest are unchanged.
// Persisted keys missing from the selection cannot be removed, so they count
// as unchanged; the three sets cover every key of existing and selected.
// Output slices are sorted by key so the result does not depend on map
// iteration order.
func Reconcile(existing map[Key]Existing, selected map[Key]int) Diff {
	var d Diff
	for k, v := range selected {
		cur, ok := existing[k]
		switch {
		case !ok:
			d.ToCreate = append(d.ToCreate, Creation{Key: k, Value: v})
		case cur.Value != v:
			d.ToUpdate = append(d.ToUpdate, Update{ID: cur.ID, Key: k, Value: v})
		default:
			d.Unchanged = append(d.Unchanged, k)
		}
	}
	for k := range existing {
		if _, ok := selected[k]; !ok {
			d.Unchanged = append(d.Unchanged, k)
		}
	}
	sort.Slice(d.ToCreate, func(i, j int) bool { return keyLess(d.ToCreate[i].Key, d.ToCreate[j].Key) })
	sort.Slice(d.ToUpdate, func(i, j int) bool { return keyLess(d.ToUpdate[i].Key, d.ToUpdate[j].Key) })
	sort.Slice(d.Unchanged, func(i, j int) bool { return keyLess(d.Unchanged[i], d.Unchanged[j]) })
	return d
}

func keyLess(a, b Key) bool {
	as, ac, errA := a.Values()
	bs, bc, errB := b.Values()
	if errA != nil || errB != nil {
		if a.Sph != b.Sph {
			return a.Sph < b.Sph
		}
		return a.Cyl < b.Cyl
	}
	if as != bs {
		return as < bs
	}
	return ac < bc
}

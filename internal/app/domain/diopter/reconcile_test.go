package diopter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReconcilePartition(t *testing.T) {
	existing := map[Key]Existing{
		k("-0.25", "0.00"):  {ID: 1, Value: 0},
		k("-0.50", "0.00"):  {ID: 2, Value: 500},
		k("-0.75", "-0.25"): {ID: 3, Value: 500},
	}
	selected := map[Key]int{
		k("-0.25", "0.00"):  0,    // unchanged
		k("-0.50", "0.00"):  700,  // repriced
		k("-0.75", "-0.25"): 500,  // unchanged
		k("-1.00", "0.00"):  1000, // new
	}

	d := Reconcile(existing, selected)
	require.False(t, d.Empty())

	require.Equal(t, []Creation{{Key: k("-1.00", "0.00"), Value: 1000}}, d.ToCreate)
	require.Equal(t, []Update{{ID: 2, Key: k("-0.50", "0.00"), Value: 700}}, d.ToUpdate)
	require.Equal(t, []Key{k("-0.75", "-0.25"), k("-0.25", "0.00")}, d.Unchanged)
}

func TestReconcileEmptyDiff(t *testing.T) {
	existing := map[Key]Existing{
		k("-0.25", "0.00"): {ID: 1, Value: 100},
	}
	selected := map[Key]int{
		k("-0.25", "0.00"): 100,
	}

	d := Reconcile(existing, selected)
	require.True(t, d.Empty())
	require.Len(t, d.Unchanged, 1)
}

func TestReconcileAllNew(t *testing.T) {
	selected := map[Key]int{
		k("-0.50", "-0.25"): 0,
		k("-0.25", "0.00"):  0,
	}

	d := Reconcile(nil, selected)
	require.Len(t, d.ToCreate, 2)
	require.Empty(t, d.ToUpdate)
	require.Empty(t, d.Unchanged)

	// Sorted by numeric key, not map order.
	require.Equal(t, k("-0.50", "-0.25"), d.ToCreate[0].Key)
	require.Equal(t, k("-0.25", "0.00"), d.ToCreate[1].Key)
}

func TestReconcileUnselectedExistingStaysUnchanged(t *testing.T) {
	existing := map[Key]Existing{
		k("-3.00", "0.00"): {ID: 9, Value: 0},
	}

	d := Reconcile(existing, map[Key]int{})
	require.True(t, d.Empty())
	require.Equal(t, []Key{k("-3.00", "0.00")}, d.Unchanged)
}

func TestReconcilePartitionCoversUnion(t *testing.T) {
	existing := map[Key]Existing{
		k("-0.25", "0.00"): {ID: 1, Value: 0},
		k("-3.00", "0.00"): {ID: 9, Value: 500},
	}
	selected := map[Key]int{
		k("-0.25", "0.00"): 100,
		k("-1.00", "0.00"): 0,
	}

	d := Reconcile(existing, selected)

	union := make(map[Key]bool)
	for k := range existing {
		union[k] = true
	}
	for k := range selected {
		union[k] = true
	}

	covered := make(map[Key]int)
	for _, c := range d.ToCreate {
		covered[c.Key]++
	}
	for _, u := range d.ToUpdate {
		covered[u.Key]++
	}
	for _, k := range d.Unchanged {
		covered[k]++
	}
	require.Len(t, covered, len(union))
	for k, n := range covered {
		require.True(t, union[k], k)
		require.Equal(t, 1, n, "key %s must land in exactly one set", k)
	}
}

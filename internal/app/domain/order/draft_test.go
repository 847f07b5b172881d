package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDraftUpsertReplacesQuantity(t *testing.T) {
	d := NewDraft()
	require.True(t, d.Upsert(1, "-0.50", "-0.25", 2, 10000))
	require.True(t, d.Upsert(1, "-0.75", "0.00", 1, 10000))
	require.True(t, d.Upsert(1, "-0.50", "-0.25", 5, 10000))

	require.Equal(t, 2, d.Len())
	items := d.Items()
	require.Equal(t, 5, items[0].Quantity, "replacement keeps the line position")
	require.Equal(t, 5, d.Quantity(1, "-0.50", "-0.25"))
}

func TestDraftUpsertKeepsLineID(t *testing.T) {
	d := NewDraft()
	require.True(t, d.Upsert(1, "0.00", "0.00", 1, 500))
	id := d.Items()[0].ID
	require.NotEmpty(t, id)

	require.True(t, d.Upsert(1, "0.00", "0.00", 3, 500))
	require.Equal(t, id, d.Items()[0].ID)
}

func TestDraftDistinguishesProducts(t *testing.T) {
	d := NewDraft()
	require.True(t, d.Upsert(1, "-0.50", "0.00", 1, 100))
	require.True(t, d.Upsert(2, "-0.50", "0.00", 1, 200))
	require.Equal(t, 2, d.Len())
}

func TestDraftQuantityBelowOneIsNoOp(t *testing.T) {
	d := NewDraft()
	require.False(t, d.Upsert(1, "0.00", "0.00", 0, 100))
	require.False(t, d.Upsert(1, "0.00", "0.00", -3, 100))
	require.Equal(t, 0, d.Len())

	// An existing line survives a below-one upsert untouched.
	require.True(t, d.Upsert(1, "0.00", "0.00", 2, 100))
	require.False(t, d.Upsert(1, "0.00", "0.00", 0, 100))
	require.Equal(t, 1, d.Len())
	require.Equal(t, 2, d.Quantity(1, "0.00", "0.00"))
}

func TestDraftRemove(t *testing.T) {
	d := NewDraft()
	require.True(t, d.Upsert(1, "-0.25", "0.00", 1, 100))
	require.True(t, d.Upsert(1, "-0.50", "0.00", 2, 100))

	require.True(t, d.Remove(1, "-0.25", "0.00"))
	require.False(t, d.Remove(1, "-0.25", "0.00"))
	require.Equal(t, 1, d.Len())
	require.Equal(t, "-0.50", d.Items()[0].Sph)
}

func TestDraftTotalsAreFolds(t *testing.T) {
	d := NewDraft()
	require.Equal(t, 0, d.TotalQuantity())
	require.Equal(t, int64(0), d.TotalAmount())

	require.True(t, d.Upsert(1, "-0.25", "0.00", 2, 10000))
	require.True(t, d.Upsert(1, "-0.50", "0.00", 3, 12000))
	require.Equal(t, 5, d.TotalQuantity())
	require.Equal(t, int64(56000), d.TotalAmount())

	d.Remove(1, "-0.50", "0.00")
	require.Equal(t, 2, d.TotalQuantity())
	require.Equal(t, int64(20000), d.TotalAmount())
}

func TestDraftReset(t *testing.T) {
	d := NewDraft()
	require.True(t, d.Upsert(1, "0.00", "0.00", 1, 100))
	d.Reset()
	require.Equal(t, 0, d.Len())
	require.Empty(t, d.Items())
}

func TestDraftItemsIsACopy(t *testing.T) {
	d := NewDraft()
	require.True(t, d.Upsert(1, "0.00", "0.00", 1, 100))
	items := d.Items()
	items[0].Quantity = 99
	require.Equal(t, 1, d.Quantity(1, "0.00", "0.00"))
}

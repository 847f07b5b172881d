package order

import "github.com/google/uuid"

// Draft accumulates line items during order entry. It is keyed by the cell
// identity (ProductID, Sph, Cyl): entering a quantity for a cell that already
// has a line replaces that line's quantity instead of adding a second line.
// Totals are folds over the lines, never cached counters.
type Draft struct {
	items []LineItem
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Upsert records qty lenses of one diopter cell and reports whether a line
// was written. An existing line for the same cell keeps its id and position
// and has its quantity and unit price replaced; otherwise a new line is
// appended under a fresh id. A quantity below one is a no-op that leaves any
// existing line untouched.
func (d *Draft) Upsert(productID int64, sph, cyl string, qty int, unitPrice int64) bool {
	if qty < 1 {
		return false
	}
	for i := range d.items {
		it := &d.items[i]
		if it.ProductID == productID && it.Sph == sph && it.Cyl == cyl {
			it.Quantity = qty
			it.UnitPrice = unitPrice
			return true
		}
	}
	d.items = append(d.items, LineItem{
		ID:        uuid.NewString(),
		ProductID: productID,
		Sph:       sph,
		Cyl:       cyl,
		Quantity:  qty,
		UnitPrice: unitPrice,
	})
	return true
}

// Remove drops the line for the cell and reports whether one existed.
func (d *Draft) Remove(productID int64, sph, cyl string) bool {
	for i := range d.items {
		it := d.items[i]
		if it.ProductID == productID && it.Sph == sph && it.Cyl == cyl {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return true
		}
	}
	return false
}

// Quantity returns the committed quantity for the cell, zero when absent.
func (d *Draft) Quantity(productID int64, sph, cyl string) int {
	for _, it := range d.items {
		if it.ProductID == productID && it.Sph == sph && it.Cyl == cyl {
			return it.Quantity
		}
	}
	return 0
}

// Items returns a copy of the draft lines in entry order.
func (d *Draft) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of lines.
func (d *Draft) Len() int {
	return len(d.items)
}

// TotalQuantity folds the lens count over all lines.
func (d *Draft) TotalQuantity() int {
	total := 0
	for _, it := range d.items {
		total += it.Quantity
	}
	return total
}

// TotalAmount folds quantity times unit price over all lines.
func (d *Draft) TotalAmount() int64 {
	var total int64
	for _, it := range d.items {
		total += int64(it.Quantity) * it.UnitPrice
	}
	return total
}

// Reset empties the draft. Called after a successful submission; a failed one
// leaves the draft intact for retry.
func (d *Draft) Reset() {
	d.items = nil
}

package diopter

// Rule prices cells by their CYL band: a cell whose CYL lies inside the
// closed interval between CylFrom and CylTo receives Adjustment. CYL values
// are never positive, so CylFrom is conventionally the bound closer to zero.
type Rule struct {
	CylFrom    Value
	CylTo      Value
	Adjustment int
}

// Matches reports whether cyl falls inside the rule's band, bounds included.
func (r Rule) Matches(cyl Value) bool {
	lo, hi := r.CylTo, r.CylFrom
	if lo > hi {
		lo, hi = hi, lo
	}
	return cyl >= lo && cyl <= hi
}

// Rules is an ordered rule list. When bands overlap the earliest rule wins.
type Rules []Rule

// AdjustmentFor returns the adjustment of the first matching rule, or zero
// when no rule covers cyl.
func (rs Rules) AdjustmentFor(cyl Value) int {
	for _, r := range rs {
		if r.Matches(cyl) {
			return r.Adjustment
		}
	}
	return 0
}

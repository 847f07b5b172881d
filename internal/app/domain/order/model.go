package order

import "time"

// Fulfilment modes chosen at submission time.
const (
	TypeNormal = "normal"
	TypeUrgent = "urgent"
	TypePickup = "pickup"
	TypeMail   = "mail"
)

// Types lists every accepted fulfilment mode.
var Types = []string{TypeNormal, TypeUrgent, TypePickup, TypeMail}

// ValidType reports whether t names a known fulfilment mode.
func ValidType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// LineItem is one lens position of an order: a product, a diopter cell and a
// quantity. ID identifies the line within its draft or order, not the cell;
// the cell identity is (ProductID, Sph, Cyl).
type LineItem struct {
	ID        string
	ProductID int64
	Sph       string
	Cyl       string
	Quantity  int
	UnitPrice int64
}

// Order is a submitted, persisted order.
type Order struct {
	ID          int64
	StoreID     int64
	OrderType   string
	Memo        string
	Items       []LineItem
	TotalAmount int64
	CreatedAt   time.Time
}

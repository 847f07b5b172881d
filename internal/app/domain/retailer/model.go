package retailer

import "time"

// Store is a retail optician shop that orders from the distributor.
type Store struct {
	ID                int64
	Code              string
	Name              string
	Phone             string
	OutstandingAmount int64
	PaymentTermDays   int
	Active            bool
	CreatedAt         time.Time
}

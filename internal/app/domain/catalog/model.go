package catalog

import "time"

// Option types a product can carry. Diopter products are sold per SPH x CYL
// cell; single products have exactly one sellable unit.
const (
	OptionSingle  = "single"
	OptionDiopter = "diopter"
)

// Brand groups the products of one lens maker.
type Brand struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Product is one sellable lens line. Amounts are integral currency units.
type Product struct {
	ID              int64
	BrandID         int64
	Name            string
	OptionType      string
	RefractiveIndex string
	SellingPrice    int64
	PurchasePrice   int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Variant is one priced SPH x CYL cell of a diopter product. Sph and Cyl hold
// the canonical formatted values and together identify the cell within its
// product; PriceAdjustment is added to the product's selling price.
type Variant struct {
	ID              int64
	ProductID       int64
	Sph             string
	Cyl             string
	PriceAdjustment int
	Stock           int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

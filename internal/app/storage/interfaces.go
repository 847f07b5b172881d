package storage

import (
	"context"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/domain/retailer"
)

// PriceUpdate repoints one persisted variant at a new price adjustment.
type PriceUpdate struct {
	VariantID       int64
	PriceAdjustment int
}

// CatalogStore persists brands and products.
type CatalogStore interface {
	CreateBrand(ctx context.Context, b catalog.Brand) (catalog.Brand, error)
	ListBrands(ctx context.Context) ([]catalog.Brand, error)

	CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	ListProducts(ctx context.Context, brandID int64) ([]catalog.Product, error)
}

// VariantStore persists the priced diopter cells of a product. The bulk calls
// are the variant editor's persistence boundary: each one is a single request
// applied atomically.
type VariantStore interface {
	ListVariants(ctx context.Context, productID int64) ([]catalog.Variant, error)
	BulkCreateVariants(ctx context.Context, productID int64, variants []catalog.Variant) (int, error)
	BulkUpdatePrices(ctx context.Context, productID int64, updates []PriceUpdate) (int, error)
}

// OrderStore persists submitted orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrder(ctx context.Context, id int64) (order.Order, error)
	ListOrders(ctx context.Context, storeID int64) ([]order.Order, error)
}

// RetailStore persists retail stores.
type RetailStore interface {
	CreateStore(ctx context.Context, st retailer.Store) (retailer.Store, error)
	GetStore(ctx context.Context, id int64) (retailer.Store, error)
	ListStores(ctx context.Context) ([]retailer.Store, error)
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/domain/retailer"
	"github.com/optilens/backoffice/internal/app/storage"
)

func seedProduct(t *testing.T, s *Store) catalog.Product {
	t.Helper()
	ctx := context.Background()

	brand, err := s.CreateBrand(ctx, catalog.Brand{Name: "Chemi"})
	require.NoError(t, err)

	p, err := s.CreateProduct(ctx, catalog.Product{
		BrandID:      brand.ID,
		Name:         "Perfect UV 1.60",
		OptionType:   catalog.OptionDiopter,
		SellingPrice: 12000,
		Active:       true,
	})
	require.NoError(t, err)
	return p
}

func TestBulkCreateVariants(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s)

	created, err := s.BulkCreateVariants(ctx, p.ID, []catalog.Variant{
		{Sph: "-0.25", Cyl: "0.00"},
		{Sph: "-0.50", Cyl: "0.00", PriceAdjustment: 500},
	})
	require.NoError(t, err)
	require.Equal(t, 2, created)

	variants, err := s.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	require.True(t, variants[0].Active)
	require.Equal(t, p.ID, variants[0].ProductID)
}

func TestBulkCreateVariantsRejectsDuplicateCell(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s)

	_, err := s.BulkCreateVariants(ctx, p.ID, []catalog.Variant{{Sph: "-0.25", Cyl: "0.00"}})
	require.NoError(t, err)

	_, err = s.BulkCreateVariants(ctx, p.ID, []catalog.Variant{
		{Sph: "-0.50", Cyl: "0.00"},
		{Sph: "-0.25", Cyl: "0.00"},
	})
	require.Error(t, err)

	// The conflicting batch must not have been half applied.
	variants, err := s.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
}

func TestBulkCreateVariantsUnknownProduct(t *testing.T) {
	s := New()
	_, err := s.BulkCreateVariants(context.Background(), 42, []catalog.Variant{{Sph: "0.00", Cyl: "0.00"}})
	require.Error(t, err)
}

func TestBulkUpdatePrices(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s)

	_, err := s.BulkCreateVariants(ctx, p.ID, []catalog.Variant{{Sph: "-0.25", Cyl: "0.00"}})
	require.NoError(t, err)
	variants, err := s.ListVariants(ctx, p.ID)
	require.NoError(t, err)

	updated, err := s.BulkUpdatePrices(ctx, p.ID, []storage.PriceUpdate{
		{VariantID: variants[0].ID, PriceAdjustment: 900},
	})
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	variants, err = s.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 900, variants[0].PriceAdjustment)

	_, err = s.BulkUpdatePrices(ctx, p.ID, []storage.PriceUpdate{{VariantID: 9999}})
	require.Error(t, err)
}

func TestCreateOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	st, err := s.CreateStore(ctx, retailer.Store{Name: "Vision Optics", Code: "S001", Active: true})
	require.NoError(t, err)

	o, err := s.CreateOrder(ctx, order.Order{
		StoreID:   st.ID,
		OrderType: order.TypeNormal,
		Items: []order.LineItem{
			{ProductID: 1, Sph: "-0.50", Cyl: "-0.25", Quantity: 2, UnitPrice: 12000},
		},
		TotalAmount: 24000,
	})
	require.NoError(t, err)
	require.NotZero(t, o.ID)
	require.NotEmpty(t, o.Items[0].ID)

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, o.Items, got.Items)

	_, err = s.CreateOrder(ctx, order.Order{StoreID: 999, OrderType: order.TypeNormal})
	require.Error(t, err)
}

func TestListOrdersFiltersByStore(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.CreateStore(ctx, retailer.Store{Name: "A"})
	require.NoError(t, err)
	b, err := s.CreateStore(ctx, retailer.Store{Name: "B"})
	require.NoError(t, err)

	_, err = s.CreateOrder(ctx, order.Order{StoreID: a.ID, OrderType: order.TypeNormal})
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, order.Order{StoreID: b.ID, OrderType: order.TypeUrgent})
	require.NoError(t, err)

	all, err := s.ListOrders(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	onlyA, err := s.ListOrders(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	require.Equal(t, a.ID, onlyA[0].StoreID)
}

func TestListProductsFiltersByBrand(t *testing.T) {
	s := New()
	ctx := context.Background()

	b1, err := s.CreateBrand(ctx, catalog.Brand{Name: "Chemi"})
	require.NoError(t, err)
	b2, err := s.CreateBrand(ctx, catalog.Brand{Name: "Hoya"})
	require.NoError(t, err)

	_, err = s.CreateProduct(ctx, catalog.Product{BrandID: b1.ID, Name: "P1", OptionType: catalog.OptionDiopter})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, catalog.Product{BrandID: b2.ID, Name: "P2", OptionType: catalog.OptionSingle})
	require.NoError(t, err)

	only, err := s.ListProducts(ctx, b2.ID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.Equal(t, "P2", only[0].Name)
}

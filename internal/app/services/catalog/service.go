package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/storage"
	"github.com/optilens/backoffice/pkg/logger"
)

// Service manages brands and products.
type Service struct {
	store storage.CatalogStore
	log   *logger.Logger
}

// New constructs a catalog service.
func New(store storage.CatalogStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// CreateBrand registers a lens maker.
func (s *Service) CreateBrand(ctx context.Context, name string) (catalog.Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return catalog.Brand{}, fmt.Errorf("name is required")
	}

	brand, err := s.store.CreateBrand(ctx, catalog.Brand{Name: name})
	if err != nil {
		return catalog.Brand{}, err
	}
	s.log.WithField("brand_id", brand.ID).Info("brand created")
	return brand, nil
}

// ListBrands returns all brands.
func (s *Service) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	return s.store.ListBrands(ctx)
}

// CreateProduct registers a lens product under a brand.
func (s *Service) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.RefractiveIndex = strings.TrimSpace(p.RefractiveIndex)

	if p.Name == "" {
		return catalog.Product{}, fmt.Errorf("name is required")
	}
	if p.BrandID == 0 {
		return catalog.Product{}, fmt.Errorf("brand_id is required")
	}
	if p.OptionType != catalog.OptionSingle && p.OptionType != catalog.OptionDiopter {
		return catalog.Product{}, fmt.Errorf("option_type must be %q or %q", catalog.OptionSingle, catalog.OptionDiopter)
	}
	if p.SellingPrice < 0 || p.PurchasePrice < 0 {
		return catalog.Product{}, fmt.Errorf("prices cannot be negative")
	}

	p.Active = true
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return catalog.Product{}, err
	}
	s.log.WithField("product_id", created.ID).
		WithField("brand_id", created.BrandID).
		Info("product created")
	return created, nil
}

// UpdateProduct updates mutable fields on a product.
func (s *Service) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	existing, err := s.store.GetProduct(ctx, p.ID)
	if err != nil {
		return catalog.Product{}, err
	}

	if name := strings.TrimSpace(p.Name); name != "" {
		existing.Name = name
	}
	if p.RefractiveIndex != "" {
		existing.RefractiveIndex = strings.TrimSpace(p.RefractiveIndex)
	}
	if p.SellingPrice != 0 {
		if p.SellingPrice < 0 {
			return catalog.Product{}, fmt.Errorf("selling_price cannot be negative")
		}
		existing.SellingPrice = p.SellingPrice
	}
	if p.PurchasePrice != 0 {
		if p.PurchasePrice < 0 {
			return catalog.Product{}, fmt.Errorf("purchase_price cannot be negative")
		}
		existing.PurchasePrice = p.PurchasePrice
	}
	existing.Active = p.Active

	updated, err := s.store.UpdateProduct(ctx, existing)
	if err != nil {
		return catalog.Product{}, err
	}
	s.log.WithField("product_id", updated.ID).Info("product updated")
	return updated, nil
}

// GetProduct fetches one product.
func (s *Service) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// ListProducts returns products, optionally filtered by brand.
func (s *Service) ListProducts(ctx context.Context, brandID int64) ([]catalog.Product, error) {
	return s.store.ListProducts(ctx, brandID)
}

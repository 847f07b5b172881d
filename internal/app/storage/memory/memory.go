package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/domain/retailer"
	"github.com/optilens/backoffice/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	brands   map[int64]catalog.Brand
	products map[int64]catalog.Product
	variants map[int64]catalog.Variant
	stores   map[int64]retailer.Store
	orders   map[int64]order.Order
}

var _ storage.CatalogStore = (*Store)(nil)
var _ storage.VariantStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
var _ storage.RetailStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:   1,
		brands:   make(map[int64]catalog.Brand),
		products: make(map[int64]catalog.Product),
		variants: make(map[int64]catalog.Variant),
		stores:   make(map[int64]retailer.Store),
		orders:   make(map[int64]order.Order),
	}
}

func (s *Store) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// CatalogStore implementation -------------------------------------------------

func (s *Store) CreateBrand(_ context.Context, b catalog.Brand) (catalog.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextIDLocked()
	b.CreatedAt = time.Now().UTC()
	s.brands[b.ID] = b
	return b, nil
}

func (s *Store) ListBrands(_ context.Context) ([]catalog.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]catalog.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) CreateProduct(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextIDLocked()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) UpdateProduct(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.products[p.ID]
	if !ok {
		return catalog.Product{}, fmt.Errorf("product %d not found", p.ID)
	}

	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.products[p.ID] = p
	return p, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("product %d not found", id)
	}
	return p, nil
}

func (s *Store) ListProducts(_ context.Context, brandID int64) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []catalog.Product
	for _, p := range s.products {
		if brandID != 0 && p.BrandID != brandID {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// VariantStore implementation -------------------------------------------------

func (s *Store) ListVariants(_ context.Context, productID int64) ([]catalog.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []catalog.Variant
	for _, v := range s.variants {
		if v.ProductID == productID {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) BulkCreateVariants(_ context.Context, productID int64, variants []catalog.Variant) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return 0, fmt.Errorf("product %d not found", productID)
	}

	// Conflict check before the first write keeps the call all-or-nothing.
	taken := make(map[[2]string]struct{})
	for _, v := range s.variants {
		if v.ProductID == productID {
			taken[[2]string{v.Sph, v.Cyl}] = struct{}{}
		}
	}
	for _, v := range variants {
		cell := [2]string{v.Sph, v.Cyl}
		if _, dup := taken[cell]; dup {
			return 0, fmt.Errorf("variant %s,%s already exists for product %d", v.Sph, v.Cyl, productID)
		}
		taken[cell] = struct{}{}
	}

	now := time.Now().UTC()
	for _, v := range variants {
		v.ID = s.nextIDLocked()
		v.ProductID = productID
		v.Active = true
		v.CreatedAt = now
		v.UpdatedAt = now
		s.variants[v.ID] = v
	}
	return len(variants), nil
}

func (s *Store) BulkUpdatePrices(_ context.Context, productID int64, updates []storage.PriceUpdate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		v, ok := s.variants[u.VariantID]
		if !ok || v.ProductID != productID {
			return 0, fmt.Errorf("variant %d not found for product %d", u.VariantID, productID)
		}
	}

	now := time.Now().UTC()
	for _, u := range updates {
		v := s.variants[u.VariantID]
		v.PriceAdjustment = u.PriceAdjustment
		v.UpdatedAt = now
		s.variants[u.VariantID] = v
	}
	return len(updates), nil
}

// OrderStore implementation ---------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[o.StoreID]; !ok {
		return order.Order{}, fmt.Errorf("store %d not found", o.StoreID)
	}

	o.ID = s.nextIDLocked()
	o.CreatedAt = time.Now().UTC()
	o.Items = cloneItems(o.Items)
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
	}
	s.orders[o.ID] = o
	return cloneOrder(o), nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %d not found", id)
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context, storeID int64) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []order.Order
	for _, o := range s.orders {
		if storeID != 0 && o.StoreID != storeID {
			continue
		}
		result = append(result, cloneOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// RetailStore implementation --------------------------------------------------

func (s *Store) CreateStore(_ context.Context, st retailer.Store) (retailer.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.ID = s.nextIDLocked()
	st.CreatedAt = time.Now().UTC()
	s.stores[st.ID] = st
	return st, nil
}

func (s *Store) GetStore(_ context.Context, id int64) (retailer.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stores[id]
	if !ok {
		return retailer.Store{}, fmt.Errorf("store %d not found", id)
	}
	return st, nil
}

func (s *Store) ListStores(_ context.Context) ([]retailer.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]retailer.Store, 0, len(s.stores))
	for _, st := range s.stores {
		result = append(result, st)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func cloneItems(items []order.LineItem) []order.LineItem {
	out := make([]order.LineItem, len(items))
	copy(out, items)
	return out
}

func cloneOrder(o order.Order) order.Order {
	o.Items = cloneItems(o.Items)
	return o
}

package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/metrics"
	"github.com/optilens/backoffice/internal/app/storage"
	"github.com/optilens/backoffice/pkg/logger"
)

// Service validates and persists submitted orders.
type Service struct {
	stores storage.RetailStore
	orders storage.OrderStore
	log    *logger.Logger
}

// New constructs an order service.
func New(stores storage.RetailStore, orders storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{stores: stores, orders: orders, log: log}
}

// Submit validates and persists one order. The total is folded from the lines
// here rather than trusted from the caller.
func (s *Service) Submit(ctx context.Context, storeID int64, orderType, memo string, items []order.LineItem) (order.Order, error) {
	orderType = strings.TrimSpace(orderType)
	if storeID == 0 {
		return order.Order{}, fmt.Errorf("store_id is required")
	}
	if !order.ValidType(orderType) {
		return order.Order{}, fmt.Errorf("unknown order type %q", orderType)
	}
	if len(items) == 0 {
		return order.Order{}, fmt.Errorf("order has no items")
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return order.Order{}, fmt.Errorf("item %s,%s: quantity %d below 1", it.Sph, it.Cyl, it.Quantity)
		}
		if it.ProductID == 0 {
			return order.Order{}, fmt.Errorf("item %s,%s: product_id is required", it.Sph, it.Cyl)
		}
	}

	if _, err := s.stores.GetStore(ctx, storeID); err != nil {
		return order.Order{}, fmt.Errorf("store validation failed: %w", err)
	}

	var total int64
	var lenses int
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPrice
		lenses += it.Quantity
	}

	created, err := s.orders.CreateOrder(ctx, order.Order{
		StoreID:     storeID,
		OrderType:   orderType,
		Memo:        strings.TrimSpace(memo),
		Items:       items,
		TotalAmount: total,
	})
	if err != nil {
		metrics.RecordOrderSubmission("failed", 0)
		return order.Order{}, err
	}

	metrics.RecordOrderSubmission("accepted", lenses)
	s.log.WithField("order_id", created.ID).
		WithField("store_id", created.StoreID).
		WithField("items", len(created.Items)).
		WithField("total", created.TotalAmount).
		Info("order submitted")
	return created, nil
}

// Get fetches one order.
func (s *Service) Get(ctx context.Context, id int64) (order.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// List returns orders, optionally filtered by store.
func (s *Service) List(ctx context.Context, storeID int64) ([]order.Order, error) {
	return s.orders.ListOrders(ctx, storeID)
}

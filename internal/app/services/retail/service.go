package retail

import (
	"context"
	"fmt"
	"strings"

	"github.com/optilens/backoffice/internal/app/domain/retailer"
	"github.com/optilens/backoffice/internal/app/storage"
	"github.com/optilens/backoffice/pkg/logger"
)

// Service manages retail stores.
type Service struct {
	store storage.RetailStore
	log   *logger.Logger
}

// New constructs a retail store service.
func New(store storage.RetailStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("retail")
	}
	return &Service{store: store, log: log}
}

// Create registers a retail store.
func (s *Service) Create(ctx context.Context, code, name, phone string, paymentTermDays int) (retailer.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return retailer.Store{}, fmt.Errorf("name is required")
	}
	if paymentTermDays < 0 {
		return retailer.Store{}, fmt.Errorf("payment_term_days cannot be negative")
	}

	created, err := s.store.CreateStore(ctx, retailer.Store{
		Code:            strings.TrimSpace(code),
		Name:            name,
		Phone:           strings.TrimSpace(phone),
		PaymentTermDays: paymentTermDays,
		Active:          true,
	})
	if err != nil {
		return retailer.Store{}, err
	}
	s.log.WithField("store_id", created.ID).Info("store created")
	return created, nil
}

// Get fetches one store.
func (s *Service) Get(ctx context.Context, id int64) (retailer.Store, error) {
	return s.store.GetStore(ctx, id)
}

// List returns all stores.
func (s *Service) List(ctx context.Context) ([]retailer.Store, error) {
	return s.store.ListStores(ctx)
}

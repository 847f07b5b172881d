package app

import (
	"context"
	"fmt"

	catalogsvc "github.com/optilens/backoffice/internal/app/services/catalog"
	orderssvc "github.com/optilens/backoffice/internal/app/services/orders"
	retailsvc "github.com/optilens/backoffice/internal/app/services/retail"
	variantssvc "github.com/optilens/backoffice/internal/app/services/variants"
	"github.com/optilens/backoffice/internal/app/storage"
	"github.com/optilens/backoffice/internal/app/storage/memory"
	"github.com/optilens/backoffice/internal/app/system"
	"github.com/optilens/backoffice/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Catalog  storage.CatalogStore
	Variants storage.VariantStore
	Orders   storage.OrderStore
	Retail   storage.RetailStore
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Catalog  *catalogsvc.Service
	Variants *variantssvc.Service
	Orders   *orderssvc.Service
	Retail   *retailsvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Catalog == nil {
		stores.Catalog = mem
	}
	if stores.Variants == nil {
		stores.Variants = mem
	}
	if stores.Orders == nil {
		stores.Orders = mem
	}
	if stores.Retail == nil {
		stores.Retail = mem
	}

	manager := system.NewManager()

	catalogService := catalogsvc.New(stores.Catalog, log)
	variantsService := variantssvc.New(stores.Catalog, stores.Variants, log)
	ordersService := orderssvc.New(stores.Retail, stores.Orders, log)
	retailService := retailsvc.New(stores.Retail, log)

	for _, name := range []string{"catalog", "variants", "orders", "retail"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	return &Application{
		manager:  manager,
		log:      log,
		Catalog:  catalogService,
		Variants: variantsService,
		Orders:   ordersService,
		Retail:   retailService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}

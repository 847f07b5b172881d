package variants

import (
	"context"
	"errors"
	"fmt"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/diopter"
	"github.com/optilens/backoffice/internal/app/metrics"
	"github.com/optilens/backoffice/internal/app/storage"
	"github.com/optilens/backoffice/pkg/logger"
)

// ErrNotDiopter is returned for variant operations on single-option products.
var ErrNotDiopter = errors.New("product does not carry diopter options")

// CellPrice is one cell of a bulk create request.
type CellPrice struct {
	Sph             string
	Cyl             string
	PriceAdjustment int
}

// Result reports what one reconcile submission did.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
}

// Service manages the priced diopter cells of products.
type Service struct {
	products storage.CatalogStore
	store    storage.VariantStore
	log      *logger.Logger
}

// New constructs a variant service.
func New(products storage.CatalogStore, store storage.VariantStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("variants")
	}
	return &Service{products: products, store: store, log: log}
}

// List returns the persisted variants of a product.
func (s *Service) List(ctx context.Context, productID int64) ([]catalog.Variant, error) {
	if _, err := s.diopterProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.store.ListVariants(ctx, productID)
}

// BulkCreate persists a batch of new cells. Cell strings are normalized
// through the codec, so "2.25" and "+2.25" land on the same canonical cell;
// a batch addressing the same cell twice is refused before any write.
func (s *Service) BulkCreate(ctx context.Context, productID int64, cells []CellPrice) (int, error) {
	if _, err := s.diopterProduct(ctx, productID); err != nil {
		return 0, err
	}
	if len(cells) == 0 {
		return 0, nil
	}

	seen := make(map[diopter.Key]struct{}, len(cells))
	variants := make([]catalog.Variant, 0, len(cells))
	for _, c := range cells {
		key, err := diopter.ParseKey(c.Sph, c.Cyl)
		if err != nil {
			return 0, fmt.Errorf("cell %s,%s: %w", c.Sph, c.Cyl, err)
		}
		if _, dup := seen[key]; dup {
			return 0, fmt.Errorf("cell %s appears twice in batch", key)
		}
		seen[key] = struct{}{}
		variants = append(variants, catalog.Variant{
			Sph:             key.Sph,
			Cyl:             key.Cyl,
			PriceAdjustment: c.PriceAdjustment,
		})
	}

	created, err := s.store.BulkCreateVariants(ctx, productID, variants)
	if err != nil {
		return 0, err
	}
	s.log.WithField("product_id", productID).
		WithField("created", created).
		Info("variants created")
	return created, nil
}

// BulkUpdate repoints persisted cells at new price adjustments.
func (s *Service) BulkUpdate(ctx context.Context, productID int64, updates []storage.PriceUpdate) (int, error) {
	if _, err := s.diopterProduct(ctx, productID); err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}

	updated, err := s.store.BulkUpdatePrices(ctx, productID, updates)
	if err != nil {
		return 0, err
	}
	s.log.WithField("product_id", productID).
		WithField("updated", updated).
		Info("variant prices updated")
	return updated, nil
}

// Reconcile partitions a full submitted selection against the stored variant
// set and applies both halves: missing cells are created, repriced cells are
// updated, equal cells are left alone. An empty diff never touches the store.
func (s *Service) Reconcile(ctx context.Context, productID int64, selected map[diopter.Key]int) (Result, error) {
	if _, err := s.diopterProduct(ctx, productID); err != nil {
		return Result{}, err
	}

	existing, err := s.existingCells(ctx, productID)
	if err != nil {
		return Result{}, err
	}

	diff := diopter.Reconcile(existing, selected)
	result := Result{
		Created:   len(diff.ToCreate),
		Updated:   len(diff.ToUpdate),
		Unchanged: len(diff.Unchanged),
	}

	if diff.Empty() {
		s.log.WithField("product_id", productID).Info("reconcile: no changes")
		return result, nil
	}

	if len(diff.ToCreate) > 0 {
		variants := make([]catalog.Variant, 0, len(diff.ToCreate))
		for _, c := range diff.ToCreate {
			variants = append(variants, catalog.Variant{
				Sph:             c.Key.Sph,
				Cyl:             c.Key.Cyl,
				PriceAdjustment: c.Value,
			})
		}
		if _, err := s.store.BulkCreateVariants(ctx, productID, variants); err != nil {
			return Result{}, fmt.Errorf("create cells: %w", err)
		}
	}
	if len(diff.ToUpdate) > 0 {
		updates := make([]storage.PriceUpdate, 0, len(diff.ToUpdate))
		for _, u := range diff.ToUpdate {
			updates = append(updates, storage.PriceUpdate{VariantID: u.ID, PriceAdjustment: u.Value})
		}
		if _, err := s.store.BulkUpdatePrices(ctx, productID, updates); err != nil {
			return Result{}, fmt.Errorf("update cells: %w", err)
		}
	}

	metrics.RecordReconcile(result.Created, result.Updated)
	s.log.WithField("product_id", productID).
		WithField("created", result.Created).
		WithField("updated", result.Updated).
		WithField("unchanged", result.Unchanged).
		Info("variants reconciled")
	return result, nil
}

func (s *Service) diopterProduct(ctx context.Context, productID int64) (catalog.Product, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product validation failed: %w", err)
	}
	if p.OptionType != catalog.OptionDiopter {
		return catalog.Product{}, ErrNotDiopter
	}
	return p, nil
}

// existingCells maps the stored variants by canonical cell key. A stored pair
// that cannot be parsed, or two rows landing on one key, would poison every
// later diff, so both are reported as errors rather than skipped.
func (s *Service) existingCells(ctx context.Context, productID int64) (map[diopter.Key]diopter.Existing, error) {
	variants, err := s.store.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing := make(map[diopter.Key]diopter.Existing, len(variants))
	for _, v := range variants {
		key, err := diopter.ParseKey(v.Sph, v.Cyl)
		if err != nil {
			return nil, fmt.Errorf("stored variant %d: %w", v.ID, err)
		}
		if _, dup := existing[key]; dup {
			return nil, fmt.Errorf("stored variants collide on cell %s", key)
		}
		existing[key] = diopter.Existing{ID: v.ID, Value: v.PriceAdjustment}
	}
	return existing, nil
}

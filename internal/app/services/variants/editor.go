package variants

import (
	"context"
	"errors"
	"fmt"

	"github.com/optilens/backoffice/internal/app/domain/diopter"
)

// Editing session errors. All are expected conditions reported to the caller,
// never panics.
var (
	ErrNotLoaded      = errors.New("editor not loaded")
	ErrSubmitInFlight = errors.New("submission already in flight")
)

// Editor is one variant editing session over a single product: a
// selection/price model seeded with the persisted baseline, the product's
// price rules, and the gestures that mutate the selection before one
// reconcile submission. It is driven by a single-threaded event loop; methods
// must not be called concurrently.
type Editor struct {
	svc        *Service
	productID  int64
	grid       diopter.Grid
	rules      diopter.Rules
	selection  diopter.Selection
	loaded     bool
	submitting bool
}

// NewEditor constructs an editor for one product over the given grid
// geometry and rule table.
func NewEditor(svc *Service, productID int64, grid diopter.Grid, rules diopter.Rules) *Editor {
	return &Editor{
		svc:       svc,
		productID: productID,
		grid:      grid,
		rules:     rules,
		selection: diopter.NewSelection(),
	}
}

// Load fetches the persisted variants and seeds the selection with them as a
// locked baseline. Until Load succeeds every editing call is refused.
func (e *Editor) Load(ctx context.Context) error {
	baseline, err := e.fetchBaseline(ctx)
	if err != nil {
		return err
	}
	e.selection = baseline
	e.loaded = true
	return nil
}

// Selection returns the current selection state.
func (e *Editor) Selection() diopter.Selection {
	return e.selection
}

// Rules returns the session's price rule table.
func (e *Editor) Rules() diopter.Rules {
	return e.rules
}

// Toggle flips one cell. A newly selected cell is priced from the rule table.
func (e *Editor) Toggle(k diopter.Key) error {
	if err := e.editable(k); err != nil {
		return err
	}
	e.selection = e.selection.Toggle(k, e.defaultPrice(k))
	return nil
}

// DragStart fixes the gesture mode from the starting cell's pre-gesture
// membership and applies the gesture to it.
func (e *Editor) DragStart(k diopter.Key) (diopter.DragMode, error) {
	if err := e.editable(k); err != nil {
		return 0, err
	}
	mode := diopter.DragModeFor(e.selection, k)
	e.selection = e.selection.Drag([]diopter.Key{k}, mode, e.defaultPrice)
	return mode, nil
}

// Drag extends a gesture over more cells, keeping the mode fixed at start.
func (e *Editor) Drag(keys []diopter.Key, mode diopter.DragMode) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	for _, k := range keys {
		if !e.grid.Contains(k) {
			return fmt.Errorf("cell %s outside grid", k)
		}
	}
	e.selection = e.selection.Drag(keys, mode, e.defaultPrice)
	return nil
}

// BulkSetPrice overwrites the price adjustment of every selected cell.
func (e *Editor) BulkSetPrice(adjustment int) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	keys := make([]diopter.Key, 0, e.selection.Len())
	for k := range e.selection.Values() {
		keys = append(keys, k)
	}
	e.selection = e.selection.BulkSet(keys, adjustment)
	return nil
}

// ApplyRules reprices every selected cell from the rule table.
func (e *Editor) ApplyRules() error {
	if !e.loaded {
		return ErrNotLoaded
	}
	next, err := e.selection.ApplyRules(e.rules)
	if err != nil {
		return err
	}
	e.selection = next
	return nil
}

// Submit reconciles the selection against the store. While a submission is in
// flight further submissions are refused. On success the baseline is replaced
// by the server's authoritative variant list; on failure the selection stays
// as it was so the operator can retry.
func (e *Editor) Submit(ctx context.Context) (Result, error) {
	if !e.loaded {
		return Result{}, ErrNotLoaded
	}
	if e.submitting {
		return Result{}, ErrSubmitInFlight
	}
	e.submitting = true
	defer func() { e.submitting = false }()

	result, err := e.svc.Reconcile(ctx, e.productID, e.selection.Values())
	if err != nil {
		return Result{}, err
	}

	baseline, err := e.fetchBaseline(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reload baseline: %w", err)
	}
	e.selection = baseline
	return result, nil
}

func (e *Editor) editable(k diopter.Key) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	if !e.grid.Contains(k) {
		return fmt.Errorf("cell %s outside grid", k)
	}
	return nil
}

func (e *Editor) defaultPrice(k diopter.Key) int {
	_, cyl, err := k.Values()
	if err != nil {
		return 0
	}
	return e.rules.AdjustmentFor(cyl)
}

func (e *Editor) fetchBaseline(ctx context.Context) (diopter.Selection, error) {
	existing, err := e.svc.existingCells(ctx, e.productID)
	if err != nil {
		return diopter.Selection{}, err
	}
	cells := make(map[diopter.Key]int, len(existing))
	for k, ex := range existing {
		cells[k] = ex.Value
	}
	return diopter.NewBaseline(cells), nil
}

package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/optilens/backoffice/internal/app/domain/catalog"
	"github.com/optilens/backoffice/internal/app/domain/diopter"
	"github.com/optilens/backoffice/internal/app/domain/order"
	"github.com/optilens/backoffice/internal/app/domain/retailer"
	"github.com/optilens/backoffice/internal/app/hotkeys"
	"github.com/optilens/backoffice/internal/app/storage"
)

// Session errors. Expected conditions, reported and recoverable.
var (
	ErrNoContext      = errors.New("store and product must be chosen first")
	ErrEmptyDraft     = errors.New("order draft is empty")
	ErrSubmitInFlight = errors.New("submission already in flight")
)

// Session is one order entry session: a store and product context, a
// navigation state machine over the order grid, and the draft the grid writes
// through to. It is driven by a single-threaded event loop; methods must not
// be called concurrently.
type Session struct {
	svc      *Service
	products storage.CatalogStore
	variants storage.VariantStore

	nav   *diopter.Navigator
	draft *order.Draft

	store      retailer.Store
	hasStore   bool
	product    catalog.Product
	hasProduct bool
	prices     map[diopter.Key]int

	orderType  string
	memo       string
	submitting bool
}

// NewSession constructs a session over the given order grid geometry.
func NewSession(svc *Service, products storage.CatalogStore, variants storage.VariantStore, grid diopter.Grid) *Session {
	return &Session{
		svc:       svc,
		products:  products,
		variants:  variants,
		nav:       diopter.NewNavigator(grid),
		draft:     order.NewDraft(),
		orderType: order.TypeNormal,
	}
}

// SelectStore chooses the ordering store.
func (s *Session) SelectStore(ctx context.Context, storeID int64) error {
	st, err := s.svc.stores.GetStore(ctx, storeID)
	if err != nil {
		return err
	}
	s.store = st
	s.hasStore = true
	return nil
}

// SelectProduct chooses the product the grid orders from and loads its
// per-cell price adjustments. Choosing a product drops grid focus; the draft
// keeps lines already entered for other products.
func (s *Session) SelectProduct(ctx context.Context, productID int64) error {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.OptionType != catalog.OptionDiopter {
		return fmt.Errorf("product %d does not carry diopter options", productID)
	}

	variants, err := s.variants.ListVariants(ctx, productID)
	if err != nil {
		return err
	}
	prices := make(map[diopter.Key]int, len(variants))
	for _, v := range variants {
		key, err := diopter.ParseKey(v.Sph, v.Cyl)
		if err != nil {
			return fmt.Errorf("stored variant %d: %w", v.ID, err)
		}
		prices[key] = v.PriceAdjustment
	}

	s.product = p
	s.hasProduct = true
	s.prices = prices
	s.nav.Cancel()
	return nil
}

// SetOrderType changes the fulfilment mode for the eventual submission.
func (s *Session) SetOrderType(t string) error {
	if !order.ValidType(t) {
		return fmt.Errorf("unknown order type %q", t)
	}
	s.orderType = t
	return nil
}

// SetMemo attaches a free-form note to the eventual submission.
func (s *Session) SetMemo(memo string) {
	s.memo = memo
}

// Activate focuses a grid cell. It is refused until both store and product
// are chosen, since a committed quantity would have nowhere to go.
func (s *Session) Activate(side diopter.Side, sphIndex, cylIndex int) error {
	if !s.hasStore || !s.hasProduct {
		return ErrNoContext
	}
	return s.nav.Activate(side, sphIndex, cylIndex)
}

// MoveRow, MoveCol and ToggleSide forward to the navigation machine.
func (s *Session) MoveRow(delta int) { s.nav.MoveRow(delta) }
func (s *Session) MoveCol(delta int) { s.nav.MoveCol(delta) }
func (s *Session) ToggleSide()       { s.nav.ToggleSide() }
func (s *Session) CancelCell()       { s.nav.Cancel() }

// Focused exposes the navigation state for rendering.
func (s *Session) Focused() (diopter.Focus, bool) {
	return s.nav.Focused()
}

// Digit types one digit into the focused cell. Each keystroke that parses to
// a positive quantity writes through to the draft immediately.
func (s *Session) Digit(b byte) error {
	commit, ok := s.nav.Digit(b)
	if !ok {
		return nil
	}
	return s.apply(commit)
}

// Backspace drops the last typed digit, or clears the focused cell's line
// when nothing is buffered.
func (s *Session) Backspace() error {
	commit, ok := s.nav.Backspace()
	if !ok {
		return nil
	}
	return s.apply(commit)
}

func (s *Session) apply(commit diopter.Commit) error {
	key := commit.Cell.Key()
	switch commit.Action {
	case diopter.CommitSet:
		s.draft.Upsert(s.product.ID, key.Sph, key.Cyl, commit.Value, s.unitPrice(key))
	case diopter.CommitClear:
		s.draft.Remove(s.product.ID, key.Sph, key.Cyl)
	}
	return nil
}

func (s *Session) unitPrice(key diopter.Key) int64 {
	return s.product.SellingPrice + int64(s.prices[key])
}

// Items returns the draft lines in entry order.
func (s *Session) Items() []order.LineItem {
	return s.draft.Items()
}

// TotalQuantity folds the lens count over the draft.
func (s *Session) TotalQuantity() int {
	return s.draft.TotalQuantity()
}

// TotalAmount folds the amount over the draft.
func (s *Session) TotalAmount() int64 {
	return s.draft.TotalAmount()
}

// Submit sends the draft across the persistence boundary. While the call is
// in flight further submissions are refused. On success the draft resets and
// grid focus drops; on failure the draft survives untouched for retry.
func (s *Session) Submit(ctx context.Context) (order.Order, error) {
	if !s.hasStore || !s.hasProduct {
		return order.Order{}, ErrNoContext
	}
	if s.submitting {
		return order.Order{}, ErrSubmitInFlight
	}
	if s.draft.Len() == 0 {
		return order.Order{}, ErrEmptyDraft
	}
	s.submitting = true
	defer func() { s.submitting = false }()

	created, err := s.svc.Submit(ctx, s.store.ID, s.orderType, s.memo, s.draft.Items())
	if err != nil {
		return order.Order{}, err
	}

	s.draft.Reset()
	s.nav.Cancel()
	return created, nil
}

// Reset discards the draft and grid focus, keeping store and product context.
func (s *Session) Reset() {
	s.draft.Reset()
	s.nav.Cancel()
}

// Bind wires the session's commands into a hotkey dispatcher using the
// standard action names.
func (s *Session) Bind(d *hotkeys.Dispatcher) {
	d.Handle(hotkeys.ActionSubmit, func(ctx context.Context) error {
		_, err := s.Submit(ctx)
		return err
	})
	d.Handle(hotkeys.ActionReset, func(context.Context) error {
		s.Reset()
		return nil
	})
	d.Handle(hotkeys.ActionCancelCell, func(context.Context) error {
		s.CancelCell()
		return nil
	})
	d.Handle(hotkeys.ActionToggleSide, func(context.Context) error {
		s.ToggleSide()
		return nil
	})
	bindType := func(action hotkeys.Action, orderType string) {
		d.Handle(action, func(context.Context) error {
			return s.SetOrderType(orderType)
		})
	}
	bindType(hotkeys.ActionTypeNormal, order.TypeNormal)
	bindType(hotkeys.ActionTypeUrgent, order.TypeUrgent)
	bindType(hotkeys.ActionTypePickup, order.TypePickup)
	bindType(hotkeys.ActionTypeMail, order.TypeMail)
}

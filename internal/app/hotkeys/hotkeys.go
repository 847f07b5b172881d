package hotkeys

import (
	"context"
	"fmt"
)

// Action names one operator command dispatchable from a key trigger.
type Action string

const (
	ActionSubmit     Action = "order.submit"
	ActionReset      Action = "order.reset"
	ActionCancelCell Action = "grid.cancel"
	ActionToggleSide Action = "grid.toggle-side"
	ActionTypeNormal Action = "order.type.normal"
	ActionTypeUrgent Action = "order.type.urgent"
	ActionTypePickup Action = "order.type.pickup"
	ActionTypeMail   Action = "order.type.mail"
)

// Binding ties one key trigger to an action.
type Binding struct {
	Trigger string
	Action  Action
}

// DefaultTable is the static binding list shared by every front end. Keeping
// it as data means a UI can rebind keys without touching dispatch logic.
var DefaultTable = []Binding{
	{Trigger: "F2", Action: ActionSubmit},
	{Trigger: "F5", Action: ActionReset},
	{Trigger: "Escape", Action: ActionCancelCell},
	{Trigger: "Tab", Action: ActionToggleSide},
	{Trigger: "F7", Action: ActionTypeNormal},
	{Trigger: "F8", Action: ActionTypeUrgent},
	{Trigger: "F9", Action: ActionTypePickup},
	{Trigger: "F10", Action: ActionTypeMail},
}

// Dispatcher routes key triggers through a binding table to registered action
// handlers.
type Dispatcher struct {
	bindings map[string]Action
	handlers map[Action]func(context.Context) error
}

// NewDispatcher builds a dispatcher over the given binding table.
func NewDispatcher(table []Binding) *Dispatcher {
	bindings := make(map[string]Action, len(table))
	for _, b := range table {
		bindings[b.Trigger] = b.Action
	}
	return &Dispatcher{
		bindings: bindings,
		handlers: make(map[Action]func(context.Context) error),
	}
}

// Handle registers the handler for one action, replacing any previous one.
func (d *Dispatcher) Handle(action Action, fn func(context.Context) error) {
	d.handlers[action] = fn
}

// Dispatch resolves the trigger and runs its handler. Unbound triggers and
// actions without a handler report errors; both are expected conditions for
// a front end to surface, not defects.
func (d *Dispatcher) Dispatch(ctx context.Context, trigger string) (Action, error) {
	action, ok := d.bindings[trigger]
	if !ok {
		return "", fmt.Errorf("no action bound to %q", trigger)
	}
	fn, ok := d.handlers[action]
	if !ok {
		return action, fmt.Errorf("no handler registered for %s", action)
	}
	return action, fn(ctx)
}

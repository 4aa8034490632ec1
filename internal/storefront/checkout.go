package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// FlowState is where the checkout flow currently stands. The flow only
// moves forward; once an order is submitted it cannot be cancelled here.
type FlowState int

const (
	// StateEditing: picking address and payment method.
	StateEditing FlowState = iota
	// StateSubmitted: the server accepted the order and the cart is cleared.
	StateSubmitted
	// StateConfirmed: confirmation is being displayed; after the
	// confirmation delay the flow returns to editing.
	StateConfirmed
)

func (s FlowState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitted:
		return "submitted"
	case StateConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// DefaultConfirmationDelay is how long the confirmation view stays up
// before the flow returns to browsing.
const DefaultConfirmationDelay = 3 * time.Second

var (
	ErrEmptyCart       = errors.New("your cart is empty")
	ErrNoAddress       = errors.New("please add your delivery address first")
	ErrCheckoutPending = errors.New("an order is already being confirmed")
)

// OrderPlacer submits a packaged order to the order store. The server
// reprices every line, so only product identities and quantities travel.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (*PlacedOrder, error)
}

// Flow drives checkout: it validates preconditions, packages the cart and
// saved address into an order request, submits it, clears the cart, and
// shows a timed confirmation.
type Flow struct {
	mu      sync.Mutex
	state   FlowState
	cart    *Cart
	storage Storage
	placer  OrderPlacer
	delay   time.Duration
	done    chan struct{}
}

type FlowOption func(*Flow)

// WithConfirmationDelay overrides how long the confirmation state lasts.
func WithConfirmationDelay(d time.Duration) FlowOption {
	return func(f *Flow) { f.delay = d }
}

func NewFlow(cart *Cart, storage Storage, placer OrderPlacer, opts ...FlowOption) *Flow {
	f := &Flow{
		state:   StateEditing,
		cart:    cart,
		storage: storage,
		placer:  placer,
		delay:   DefaultConfirmationDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SaveAddress persists the delivery address used by subsequent checkouts.
func (f *Flow) SaveAddress(addr Address) error {
	if err := f.storage.SaveAddress(addr); err != nil {
		return fmt.Errorf("checkout: failed to save address: %w", err)
	}
	return nil
}

// PlaceOrder runs the whole submit path. On any precondition failure the
// flow stays in editing and nothing changes.
func (f *Flow) PlaceOrder(ctx context.Context) (*PlacedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateEditing {
		return nil, ErrCheckoutPending
	}

	addr, err := f.storage.LoadAddress()
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to load address: %w", err)
	}
	if addr == nil {
		return nil, ErrNoAddress
	}

	items := f.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := OrderRequest{
		Items:   make([]OrderItemRequest, 0, len(items)),
		Address: *addr,
	}
	for _, item := range items {
		req.Items = append(req.Items, OrderItemRequest{
			ProductID: item.ID,
			Quantity:  item.Quantity,
		})
	}

	placed, err := f.placer.PlaceOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to place order: %w", err)
	}

	f.state = StateSubmitted

	// The server accepted the order; the local copy is only a cache.
	if err := f.storage.AppendOrder(*placed); err != nil {
		return nil, fmt.Errorf("checkout: failed to record order locally: %w", err)
	}
	if err := f.cart.Clear(); err != nil {
		return nil, fmt.Errorf("checkout: failed to clear cart: %w", err)
	}

	f.state = StateConfirmed
	f.done = make(chan struct{})
	done := f.done
	time.AfterFunc(f.delay, func() {
		f.mu.Lock()
		f.state = StateEditing
		f.mu.Unlock()
		close(done)
	})

	return placed, nil
}

// ConfirmationDone returns a channel closed when the confirmation view
// times out and the flow is back in editing. Returns nil when no
// confirmation is pending.
func (f *Flow) ConfirmationDone() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// OrderHistory returns the locally cached order history, oldest first.
func (f *Flow) OrderHistory() ([]PlacedOrder, error) {
	orders, err := f.storage.LoadOrders()
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to load order history: %w", err)
	}
	return orders, nil
}

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/product"
	"github.com/quickbasket/quickbasket/internal/user"
)

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusPreparing: true,
		StatusCancelled: true,
	},
	StatusPreparing: {
		StatusOutForDelivery: true,
		StatusCancelled:      true,
	},
	StatusOutForDelivery: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

var (
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("order item quantity must be greater than zero")
	ErrProductUnavailable = errors.New("product is unavailable")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrAccessDenied       = errors.New("access denied")
)

// ItemInput is one requested line of a new order. Prices are not accepted
// from the caller; each line is repriced against the live catalog.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateInput struct {
	Items   []ItemInput
	Address Address
}

// Catalog is the slice of the product service the order service needs to
// snapshot line items.
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
}

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Order, error)
	Get(ctx context.Context, orderID uuid.UUID, caller Caller) (*Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error
}

// Caller identifies who is asking, for ownership checks.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

type service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, catalog Catalog) Service {
	return &service{repo: repo, catalog: catalog}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*Order, error) {
	if len(input.Items) == 0 {
		log.Warn().Stringer("user_id", userID).Msg("service: attempt to create order with no items")
		return nil, ErrEmptyOrder
	}

	o := &Order{
		UserID:        userID,
		Address:       input.Address,
		Status:        StatusPending,
		PaymentMethod: PaymentMethodCOD,
		PaymentStatus: PaymentPending,
		Items:         make([]Item, 0, len(input.Items)),
	}

	totalAmount := 0.0
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, line.ProductID)
		}
		if line.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product id cannot be nil", ErrProductUnavailable)
		}

		p, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, fmt.Errorf("%w: product %s", ErrProductUnavailable, line.ProductID)
			}
			log.Error().Err(err).Stringer("product_id", line.ProductID).Msg("service: failed to resolve product for order")
			return nil, fmt.Errorf("service: failed to resolve product: %w", err)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: product %s", ErrProductUnavailable, line.ProductID)
		}

		// The snapshot is taken from the live catalog, never from the
		// caller's payload.
		o.Items = append(o.Items, Item{
			ProductID:    p.ID,
			Name:         p.Name,
			PricePerUnit: p.Price,
			Quantity:     line.Quantity,
			Image:        p.Image,
		})
		totalAmount += float64(line.Quantity) * p.Price
	}
	o.TotalAmount = totalAmount

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", o.ID).Stringer("user_id", userID).Float64("total", o.TotalAmount).Msg("Order created")

	return o, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID, caller Caller) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to fetch order")
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	if o.UserID != caller.UserID && caller.Role != user.RoleAdmin {
		log.Warn().Stringer("order_id", orderID).Stringer("caller_id", caller.UserID).Msg("service: order access denied")
		return nil, ErrAccessDenied
	}

	return o, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch user orders")
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}

	return orders, nil
}

func (s *service) ListAll(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to fetch all orders")
		return nil, fmt.Errorf("service: failed to fetch all orders: %w", err)
	}

	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	if !ValidStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to get order for status update")
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == newStatus {
		log.Info().Stringer("order_id", orderID).Stringer("status", newStatus).Msg("service: order status unchanged, no update needed")
		return nil
	}

	if !allowedTransitions[current.Status][newStatus] {
		log.Warn().
			Stringer("order_id", orderID).
			Stringer("current_status", current.Status).
			Stringer("new_status", newStatus).
			Msg("service: invalid status transition attempt")
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to update order status")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("old_status", current.Status).Stringer("new_status", newStatus).Msg("Order status updated")
	return nil
}

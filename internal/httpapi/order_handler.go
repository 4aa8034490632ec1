package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/auth"
	"github.com/quickbasket/quickbasket/internal/order"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type AddressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	Pincode string `json:"pincode" validate:"required"`
}

type CreateOrderRequest struct {
	Items   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Address AddressRequest     `json:"delivery_address" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderHandler struct {
	orders   order.Service
	validate *validator.Validate
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		validate: validator.New(),
	}
}

func (h *OrderHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	input := order.CreateInput{
		Items: make([]order.ItemInput, 0, len(req.Items)),
		Address: order.Address{
			Street:  req.Address.Street,
			City:    req.Address.City,
			State:   req.Address.State,
			Pincode: req.Address.Pincode,
		},
	}
	for _, item := range req.Items {
		productID, err := uuid.FromString(item.ProductID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid product id")
			return
		}
		input.Items = append(input.Items, order.ItemInput{ProductID: productID, Quantity: item.Quantity})
	}

	created, err := h.orders.Create(r.Context(), identity.UserID, input)
	if err != nil {
		h.respondOrderError(w, err, "Failed to create order")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) handleListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	orders, err := h.orders.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list all orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Get(r.Context(), id, order.Caller{UserID: identity.UserID, Role: identity.Role})
	if err != nil {
		h.respondOrderError(w, err, "Failed to fetch order")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, order.Status(req.Status)); err != nil {
		h.respondOrderError(w, err, "Failed to update order")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}

func (h *OrderHandler) respondOrderError(w http.ResponseWriter, err error, fallback string) {
	statusCode := mapErrorToStatusCode(err)

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		respondWithError(w, statusCode, "Order not found")
	case errors.Is(err, order.ErrAccessDenied):
		respondWithError(w, statusCode, "Access denied")
	case errors.Is(err, order.ErrEmptyOrder):
		respondWithError(w, statusCode, "Order must contain at least one item")
	case errors.Is(err, order.ErrInvalidQuantity):
		respondWithError(w, statusCode, "Item quantity must be at least 1")
	case errors.Is(err, order.ErrProductUnavailable):
		respondWithError(w, statusCode, "One or more products are unavailable")
	case errors.Is(err, order.ErrUnknownStatus):
		respondWithError(w, statusCode, "Unknown order status")
	case errors.Is(err, order.ErrInvalidTransition):
		respondWithError(w, statusCode, "Invalid order status transition")
	default:
		log.Error().Err(err).Msg(fallback)
		respondWithError(w, statusCode, fallback)
	}
}

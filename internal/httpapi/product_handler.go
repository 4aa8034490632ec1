package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/product"
)

type ProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"required,min=0"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Category      string   `json:"category" validate:"required"`
	Image         string   `json:"image" validate:"required"`
	Stock         int      `json:"stock" validate:"min=0"`
	Unit          string   `json:"unit"`
	Discount      float64  `json:"discount" validate:"min=0,max=100"`
	Rating        float64  `json:"rating" validate:"min=0,max=5"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type ProductHandler struct {
	products product.Service
	validate *validator.Validate
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{
		products: products,
		validate: validator.New(),
	}
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := product.ListFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Stringer("product_id", id).Msg("Failed to fetch product")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	created, err := h.products.Create(r.Context(), req.toModel())
	if err != nil {
		h.respondProductError(w, err, "Failed to create product")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	p := req.toModel()
	p.ID = id

	updated, err := h.products.Update(r.Context(), p)
	if err != nil {
		h.respondProductError(w, err, "Failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.respondProductError(w, err, "Failed to delete product")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *ProductHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error, fallback string) {
	statusCode := mapErrorToStatusCode(err)

	switch {
	case errors.Is(err, product.ErrProductNotFound):
		respondWithError(w, statusCode, "Product not found")
	case errors.Is(err, product.ErrInconsistentDiscount):
		respondWithError(w, statusCode, "Price is inconsistent with original price and discount")
	default:
		log.Error().Err(err).Msg(fallback)
		respondWithError(w, statusCode, fallback)
	}
}

func (r *ProductRequest) toModel() *product.Product {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &product.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Category:      r.Category,
		Image:         r.Image,
		Stock:         r.Stock,
		Unit:          r.Unit,
		Discount:      r.Discount,
		Rating:        r.Rating,
		IsActive:      isActive,
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

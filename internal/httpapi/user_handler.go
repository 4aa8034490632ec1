package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/auth"
	"github.com/quickbasket/quickbasket/internal/user"
)

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone"`
}

type AddAddressRequest struct {
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state"`
	Pincode   string `json:"pincode" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

type UserHandler struct {
	users    user.Service
	validate *validator.Validate
}

func NewUserHandler(users user.Service) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
	}
}

func (h *UserHandler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	u, err := h.users.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to fetch profile")
		}
		respondWithError(w, statusCode, "Failed to fetch profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), identity.UserID, req.Name, req.Phone)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to update profile")
		}
		respondWithError(w, statusCode, "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) handleAddAddress(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req AddAddressRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	addresses, err := h.users.AddAddress(r.Context(), identity.UserID, user.Address{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to add address")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to add address")
		return
	}

	respondWithJSON(w, http.StatusOK, addresses)
}

func (h *UserHandler) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	u, err := h.users.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to fetch addresses")
		}
		respondWithError(w, statusCode, "Failed to fetch addresses")
		return
	}

	respondWithJSON(w, http.StatusOK, u.Addresses)
}

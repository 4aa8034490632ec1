package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/quickbasket/quickbasket/internal/auth"
	"github.com/quickbasket/quickbasket/internal/user"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  user.Summary `json:"user"`
}

type AuthHandler struct {
	users    user.Service
	tokens   *auth.Manager
	validate *validator.Validate
}

func NewAuthHandler(users user.Service, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	created, err := h.users.Register(r.Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, user.ErrEmailExists):
			clientMessage = "Email already registered"
		case errors.Is(err, user.ErrInvalidRole):
			clientMessage = "Invalid role"
		default:
			log.Error().Err(err).Msg("Failed to register user")
			clientMessage = "Registration failed"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	token, err := h.tokens.Generate(created.ID, created.Role)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate token")
		respondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondWithJSON(w, http.StatusCreated, AuthResponse{Token: token, User: created.Summary()})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, user.ErrNotFound):
			clientMessage = "User not found"
		case errors.Is(err, user.ErrInvalidPassword):
			clientMessage = "Invalid password"
		default:
			log.Error().Err(err).Msg("Failed to log in user")
			clientMessage = "Login failed"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	token, err := h.tokens.Generate(u.ID, u.Role)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate token")
		respondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondWithJSON(w, http.StatusOK, AuthResponse{Token: token, User: u.Summary()})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
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
			respondWithError(w, statusCode, "Failed to fetch user")
			return
		}
		respondWithError(w, statusCode, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickbasket/quickbasket/internal/auth"
	"github.com/quickbasket/quickbasket/internal/order"
	"github.com/quickbasket/quickbasket/internal/product"
	"github.com/quickbasket/quickbasket/internal/user"
)

// NewRouter assembles the full REST surface.
func NewRouter(users user.Service, products product.Service, orders order.Service, tokens *auth.Manager) *chi.Mux {
	authHandler := NewAuthHandler(users, tokens)
	productHandler := NewProductHandler(products)
	orderHandler := NewOrderHandler(orders)
	userHandler := NewUserHandler(users)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.handleRegister)
		r.Post("/auth/login", authHandler.handleLogin)
		r.With(tokens.Authenticate).Get("/auth/me", authHandler.handleMe)

		r.Get("/products", productHandler.handleList)
		r.Get("/products/{id}", productHandler.handleGet)
		r.Get("/categories", productHandler.handleCategories)

		r.Group(func(r chi.Router) {
			r.Use(tokens.Authenticate, auth.RequireAdmin)
			r.Post("/products", productHandler.handleCreate)
			r.Put("/products/{id}", productHandler.handleUpdate)
			r.Delete("/products/{id}", productHandler.handleDelete)
			r.Get("/orders/all", orderHandler.handleListAll)
			r.Put("/orders/{id}/status", orderHandler.handleUpdateStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(tokens.Authenticate)
			r.Post("/orders", orderHandler.handleCreate)
			r.Get("/orders", orderHandler.handleListMine)
			r.Get("/orders/{id}", orderHandler.handleGet)
			r.Get("/user/profile", userHandler.handleGetProfile)
			r.Put("/user/profile", userHandler.handleUpdateProfile)
			r.Get("/user/address", userHandler.handleListAddresses)
			r.Post("/user/address", userHandler.handleAddAddress)
		})
	})

	return r
}

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/quickbasket/internal/auth"
	"github.com/quickbasket/quickbasket/internal/httpapi"
	"github.com/quickbasket/quickbasket/internal/order"
	"github.com/quickbasket/quickbasket/internal/product"
	"github.com/quickbasket/quickbasket/internal/user"
)

type mockUserService struct {
	registerFunc      func(ctx context.Context, input user.RegisterInput) (*user.User, error)
	loginFunc         func(ctx context.Context, email, password string) (*user.User, error)
	getProfileFunc    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	updateProfileFunc func(ctx context.Context, id uuid.UUID, name, phone string) (*user.User, error)
	addAddressFunc    func(ctx context.Context, userID uuid.UUID, addr user.Address) ([]user.Address, error)
}

func (m *mockUserService) Register(ctx context.Context, input user.RegisterInput) (*user.User, error) {
	return m.registerFunc(ctx, input)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockUserService) GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.getProfileFunc(ctx, id)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*user.User, error) {
	return m.updateProfileFunc(ctx, id, name, phone)
}

func (m *mockUserService) AddAddress(ctx context.Context, userID uuid.UUID, addr user.Address) ([]user.Address, error) {
	return m.addAddressFunc(ctx, userID, addr)
}

type mockProductService struct {
	listFunc       func(ctx context.Context, filter product.ListFilter) ([]product.Product, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	createFunc     func(ctx context.Context, p *product.Product) (*product.Product, error)
	updateFunc     func(ctx context.Context, p *product.Product) (*product.Product, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
	categoriesFunc func(ctx context.Context) ([]string, error)
}

func (m *mockProductService) List(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockProductService) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductService) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	return m.createFunc(ctx, p)
}

func (m *mockProductService) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
	return m.updateFunc(ctx, p)
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockProductService) Categories(ctx context.Context) ([]string, error) {
	return m.categoriesFunc(ctx)
}

type mockOrderService struct {
	createFunc       func(ctx context.Context, userID uuid.UUID, input order.CreateInput) (*order.Order, error)
	getFunc          func(ctx context.Context, orderID uuid.UUID, caller order.Caller) (*order.Order, error)
	listForUserFunc  func(ctx context.Context, userID uuid.UUID) ([]order.Order, error)
	listAllFunc      func(ctx context.Context) ([]order.Order, error)
	updateStatusFunc func(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error
}

func (m *mockOrderService) Create(ctx context.Context, userID uuid.UUID, input order.CreateInput) (*order.Order, error) {
	return m.createFunc(ctx, userID, input)
}

func (m *mockOrderService) Get(ctx context.Context, orderID uuid.UUID, caller order.Caller) (*order.Order, error) {
	return m.getFunc(ctx, orderID, caller)
}

func (m *mockOrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	return m.listForUserFunc(ctx, userID)
}

func (m *mockOrderService) ListAll(ctx context.Context) ([]order.Order, error) {
	return m.listAllFunc(ctx)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error {
	return m.updateStatusFunc(ctx, orderID, newStatus)
}

type routerFixture struct {
	users    *mockUserService
	products *mockProductService
	orders   *mockOrderService
	tokens   *auth.Manager
	router   http.Handler
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		users:    &mockUserService{},
		products: &mockProductService{},
		orders:   &mockOrderService{},
		tokens:   auth.NewManager("test-secret"),
	}
	f.router = httpapi.NewRouter(f.users, f.products, f.orders, f.tokens)
	return f
}

func (f *routerFixture) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *routerFixture) tokenFor(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := f.tokens.Generate(userID, role)
	require.NoError(t, err)
	return token
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name         string
		body         any
		registerFunc func(ctx context.Context, input user.RegisterInput) (*user.User, error)
		wantStatus   int
		wantError    string
	}{
		{
			name: "created",
			body: map[string]string{"name": "Priya", "email": "priya@example.com", "password": "secret123"},
			registerFunc: func(ctx context.Context, input user.RegisterInput) (*user.User, error) {
				return &user.User{ID: uuid.Must(uuid.NewV4()), Name: input.Name, Email: input.Email, Role: user.RoleUser}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate_email",
			body: map[string]string{"name": "Priya", "email": "priya@example.com", "password": "secret123"},
			registerFunc: func(ctx context.Context, input user.RegisterInput) (*user.User, error) {
				return nil, user.ErrEmailExists
			},
			wantStatus: http.StatusConflict,
			wantError:  "Email already registered",
		},
		{
			name:       "short_password",
			body:       map[string]string{"name": "Priya", "email": "priya@example.com", "password": "abc"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed_body",
			body:       map[string]any{"name": "Priya", "email": "priya@example.com", "password": "secret123", "admin": true},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()
			f.users.registerFunc = tt.registerFunc

			rec := f.request(t, http.MethodPost, "/api/auth/register", tt.body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			if tt.wantStatus == http.StatusCreated {
				var resp httpapi.AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.NotEmpty(t, resp.Token)
				assert.Equal(t, "priya@example.com", resp.User.Email)

				claims, err := f.tokens.Parse(resp.Token)
				require.NoError(t, err)
				assert.Equal(t, resp.User.ID.String(), claims.UserID)
				assert.Equal(t, user.RoleUser, claims.Role)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	known := &user.User{ID: uuid.Must(uuid.NewV4()), Email: "priya@example.com", Role: user.RoleUser}

	tests := []struct {
		name       string
		loginFunc  func(ctx context.Context, email, password string) (*user.User, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "ok",
			loginFunc: func(ctx context.Context, email, password string) (*user.User, error) {
				return known, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown_user",
			loginFunc: func(ctx context.Context, email, password string) (*user.User, error) {
				return nil, user.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
		{
			name: "wrong_password",
			loginFunc: func(ctx context.Context, email, password string) (*user.User, error) {
				return nil, user.ErrInvalidPassword
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()
			f.users.loginFunc = tt.loginFunc

			body := map[string]string{"email": "priya@example.com", "password": "secret123"}
			rec := f.request(t, http.MethodPost, "/api/auth/login", body, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			if tt.wantStatus == http.StatusOK {
				var resp httpapi.AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, known.ID, resp.User.ID)
			}
		})
	}
}

func TestProductRoutes_AdminGuard(t *testing.T) {
	f := newRouterFixture()
	f.products.createFunc = func(ctx context.Context, p *product.Product) (*product.Product, error) {
		p.ID = uuid.Must(uuid.NewV4())
		return p, nil
	}

	body := map[string]any{"name": "Paneer", "price": 90, "category": "dairy", "image": "images/paneer.jpg", "stock": 10, "unit": "500g"}

	t.Run("anonymous_unauthorized", func(t *testing.T) {
		rec := f.request(t, http.MethodPost, "/api/products", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user_forbidden", func(t *testing.T) {
		token := f.tokenFor(t, uuid.Must(uuid.NewV4()), user.RoleUser)
		rec := f.request(t, http.MethodPost, "/api/products", body, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin_created", func(t *testing.T) {
		token := f.tokenFor(t, uuid.Must(uuid.NewV4()), user.RoleAdmin)
		rec := f.request(t, http.MethodPost, "/api/products", body, token)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestProductList_Public(t *testing.T) {
	f := newRouterFixture()

	var gotFilter product.ListFilter
	f.products.listFunc = func(ctx context.Context, filter product.ListFilter) ([]product.Product, error) {
		gotFilter = filter
		return []product.Product{{ID: uuid.Must(uuid.NewV4()), Name: "Fresh Tomatoes", Price: 40, IsActive: true}}, nil
	}

	rec := f.request(t, http.MethodGet, "/api/products?category=vegetables&search=tom", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, product.ListFilter{Category: "vegetables", Search: "tom"}, gotFilter)

	var products []product.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Fresh Tomatoes", products[0].Name)
}

func TestProductGet_InvalidID(t *testing.T) {
	f := newRouterFixture()

	rec := f.request(t, http.MethodGet, "/api/products/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderCreate(t *testing.T) {
	buyerID := uuid.Must(uuid.NewV4())
	productID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name       string
		body       any
		createFunc func(ctx context.Context, userID uuid.UUID, input order.CreateInput) (*order.Order, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: map[string]any{
				"items":            []map[string]any{{"product_id": productID.String(), "quantity": 2}},
				"delivery_address": map[string]string{"street": "12 MG Road", "city": "Bengaluru", "state": "KA", "pincode": "560001"},
			},
			createFunc: func(ctx context.Context, userID uuid.UUID, input order.CreateInput) (*order.Order, error) {
				return &order.Order{
					ID:          uuid.Must(uuid.NewV4()),
					UserID:      userID,
					Status:      order.StatusPending,
					TotalAmount: 80,
					Items:       []order.Item{{ProductID: productID, Name: "Fresh Tomatoes", PricePerUnit: 40, Quantity: 2}},
				}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "empty_items",
			body: map[string]any{
				"items":            []map[string]any{},
				"delivery_address": map[string]string{"street": "12 MG Road", "city": "Bengaluru", "pincode": "560001"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unavailable_product",
			body: map[string]any{
				"items":            []map[string]any{{"product_id": productID.String(), "quantity": 1}},
				"delivery_address": map[string]string{"street": "12 MG Road", "city": "Bengaluru", "pincode": "560001"},
			},
			createFunc: func(ctx context.Context, userID uuid.UUID, input order.CreateInput) (*order.Order, error) {
				return nil, order.ErrProductUnavailable
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "One or more products are unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()
			f.orders.createFunc = tt.createFunc
			token := f.tokenFor(t, buyerID, user.RoleUser)

			rec := f.request(t, http.MethodPost, "/api/orders", tt.body, token)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
			if tt.wantStatus == http.StatusCreated {
				var created order.Order
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
				assert.Equal(t, buyerID, created.UserID)
				assert.Equal(t, 80.0, created.TotalAmount)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		f := newRouterFixture()
		rec := f.request(t, http.MethodPost, "/api/orders", map[string]any{}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOrderGet_AccessDenied(t *testing.T) {
	f := newRouterFixture()
	orderID := uuid.Must(uuid.NewV4())

	f.orders.getFunc = func(ctx context.Context, id uuid.UUID, caller order.Caller) (*order.Order, error) {
		return nil, order.ErrAccessDenied
	}

	token := f.tokenFor(t, uuid.Must(uuid.NewV4()), user.RoleUser)
	rec := f.request(t, http.MethodGet, "/api/orders/"+orderID.String(), nil, token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestOrderUpdateStatus(t *testing.T) {
	orderID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name             string
		status           string
		updateStatusFunc func(ctx context.Context, id uuid.UUID, newStatus order.Status) error
		wantStatus       int
		wantError        string
	}{
		{
			name:   "ok",
			status: "confirmed",
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) error {
				return nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "invalid_transition",
			status: "delivered",
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) error {
				return order.ErrInvalidTransition
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid order status transition",
		},
		{
			name:   "unknown_status",
			status: "shipped",
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) error {
				return order.ErrUnknownStatus
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Unknown order status",
		},
		{
			name:   "not_found",
			status: "confirmed",
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) error {
				return order.ErrOrderNotFound
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture()
			f.orders.updateStatusFunc = tt.updateStatusFunc
			token := f.tokenFor(t, uuid.Must(uuid.NewV4()), user.RoleAdmin)

			body := map[string]string{"status": tt.status}
			rec := f.request(t, http.MethodPut, "/api/orders/"+orderID.String()+"/status", body, token)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
		})
	}

	t.Run("user_forbidden", func(t *testing.T) {
		f := newRouterFixture()
		token := f.tokenFor(t, uuid.Must(uuid.NewV4()), user.RoleUser)

		body := map[string]string{"status": "confirmed"}
		rec := f.request(t, http.MethodPut, "/api/orders/"+orderID.String()+"/status", body, token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestOrdersAll_RoutesToAdminList(t *testing.T) {
	f := newRouterFixture()

	listAllCalled := false
	f.orders.listAllFunc = func(ctx context.Context) ([]order.Order, error) {
		listAllCalled = true
		return []order.Order{}, nil
	}

	token := f.tokenFor(t, uuid.Must(uuid.NewV4()), user.RoleAdmin)
	rec := f.request(t, http.MethodGet, "/api/orders/all", nil, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, listAllCalled, "/api/orders/all must hit the admin listing, not the id lookup")
}

func TestUserProfile(t *testing.T) {
	f := newRouterFixture()
	userID := uuid.Must(uuid.NewV4())

	f.users.getProfileFunc = func(ctx context.Context, id uuid.UUID) (*user.User, error) {
		assert.Equal(t, userID, id)
		return &user.User{ID: id, Name: "Priya", Email: "priya@example.com", Role: user.RoleUser}, nil
	}

	token := f.tokenFor(t, userID, user.RoleUser)
	rec := f.request(t, http.MethodGet, "/api/user/profile", nil, token)

	assert.Equal(t, http.StatusOK, rec.Code)

	var u user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, userID, u.ID)
	assert.NotContains(t, rec.Body.String(), "password", "password hash must never be serialized")
}

func TestAddAddress(t *testing.T) {
	f := newRouterFixture()
	userID := uuid.Must(uuid.NewV4())

	f.users.addAddressFunc = func(ctx context.Context, id uuid.UUID, addr user.Address) ([]user.Address, error) {
		assert.Equal(t, userID, id)
		addr.ID = uuid.Must(uuid.NewV4())
		return []user.Address{addr}, nil
	}

	token := f.tokenFor(t, userID, user.RoleUser)
	body := map[string]any{"street": "12 MG Road", "city": "Bengaluru", "state": "KA", "pincode": "560001", "is_default": true}
	rec := f.request(t, http.MethodPost, "/api/user/address", body, token)

	assert.Equal(t, http.StatusOK, rec.Code)

	var addrs []user.Address
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addrs))
	require.Len(t, addrs, 1)
	assert.Equal(t, "12 MG Road", addrs[0].Street)
}

package storefront_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/quickbasket/internal/storefront"
)

func TestClient_Login_StoresToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "priya@example.com", creds["email"])

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"token": "issued-token",
				"user":  map[string]string{"id": "u1", "name": "Priya", "email": creds["email"], "role": "user"},
			})
		case "/api/orders":
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[]"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := storefront.NewClient(srv.URL)

	u, err := client.Login(context.Background(), "priya@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Priya", u.Name)

	_, err = client.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer issued-token", gotAuth, "token from login must ride on later calls")
}

func TestClient_Products_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "vegetables", r.URL.Query().Get("category"))
		assert.Equal(t, "tom", r.URL.Query().Get("search"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Fresh Tomatoes","price":40}]`))
	}))
	defer srv.Close()

	products, err := storefront.NewClient(srv.URL).Products(context.Background(), "vegetables", "tom")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Fresh Tomatoes", products[0].Name)
}

func TestClient_PlaceOrder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"One or more products are unavailable"}`))
	}))
	defer srv.Close()

	_, err := storefront.NewClient(srv.URL).PlaceOrder(context.Background(), storefront.OrderRequest{
		Items:   []storefront.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		Address: storefront.Address{Street: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
	})

	var apiErr *storefront.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "One or more products are unavailable", apiErr.Message)
}

func TestClient_ErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := storefront.NewClient(srv.URL).Categories(context.Background())

	var apiErr *storefront.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
)

func sampleRequest() checkoutports.CreateOrderRequest {
	return checkoutports.CreateOrderRequest{
		IdempotencyKey: "key-1",
		CustomerName:   "Ana Gomez",
		Items:          []checkoutports.OrderItem{{ProductID: 1, Name: "Collar", Price: 10000, Quantity: 2}},
		Subtotal:       20000,
		ShippingCost:   10000,
		TotalAmount:    30000,
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")

		var body checkoutports.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana Gomez", body.CustomerName)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Orden creada exitosamente",
			"data": map[string]any{
				"id":           "ord-1",
				"order_number": "ORD-20260830-ABC123",
				"total_amount": 30000,
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	receipt, err := client.PlaceOrder(context.Background(), "token-1", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", receipt.OrderID)
	assert.Equal(t, "ORD-20260830-ABC123", receipt.OrderNumber)
	assert.Equal(t, int64(30000), receipt.TotalAmount)

	assert.Equal(t, "/api/orders", gotPath)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "key-1", gotKey)
}

func TestPlaceOrder_KeepsExistingBearerPrefix(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"ord-1"}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.PlaceOrder(context.Background(), "Bearer token-1", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-1", gotAuth)
}

func TestPlaceOrder_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"title":"Conflict","detail":"idempotency key replayed with a different payload"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.PlaceOrder(context.Background(), "token-1", sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency conflict")
	assert.Contains(t, err.Error(), "different payload")
}

func TestPlaceOrder_ValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"title":"Validation Error"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.PlaceOrder(context.Background(), "token-1", sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation Error")
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("   ", nil)
	assert.Error(t, err)

	client, err := NewClient("http://localhost:8080/", nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

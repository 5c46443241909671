package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/bapesu/storefront-api/internal/domains/cart/application"
	checkoutlocal "github.com/bapesu/storefront-api/internal/domains/checkout/adapters/local"
	"github.com/bapesu/storefront-api/internal/domains/checkout/adapters/whatsapp"
	checkoutworkflows "github.com/bapesu/storefront-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/bapesu/storefront-api/internal/domains/checkout/application"
	ordersmemory "github.com/bapesu/storefront-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/bapesu/storefront-api/internal/domains/orders/application"
	"github.com/bapesu/storefront-api/internal/platform/auth"
)

type testEnv struct {
	router   *gin.Engine
	verifier *auth.Verifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := ordersapp.NewService(
		ordersmemory.NewRepository(),
		ordersmemory.NewRatingStore(),
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	)
	cart := cartapp.NewStore(nil)
	verifier := auth.NewVerifier("test-secret")
	placer := checkoutlocal.NewPlacer(orders, verifier)
	notifier := whatsapp.NewNotifier("573001112233")
	orchestrator := checkoutworkflows.NewInlinePlacement(placer, notifier)
	checkout := checkoutapp.NewController(cart, orchestrator)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(orders, cart, checkout, verifier, logger)
	return &testEnv{router: srv.Router(), verifier: verifier}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.verifier.GenerateToken(userID, userID+"@example.com", role, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total   int64 `json:"total"`
		Page    int   `json:"page"`
		PerPage int   `json:"per_page"`
	} `json:"pagination"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func createOrderBody() map[string]any {
	return map[string]any{
		"customer_name":    "Ana Gomez",
		"customer_email":   "ana@example.com",
		"customer_phone":   "3001234567",
		"shipping_address": "Calle 1 # 2-3",
		"shipping_city":    "Bogota",
		"shipping_state":   "Cundinamarca",
		"shipping_zip":     "110111",
		"shipping_method":  "interrapidisimo_bogota",
		"payment_method":   "transfer",
		"items": []map[string]any{
			{"product_id": 1, "name": "Collar artesanal", "price": 10000, "quantity": 2},
			{"product_id": 2, "name": "Pulsera", "price": 5000, "quantity": 1},
		},
		"subtotal":      25000,
		"shipping_cost": 10000,
		"total_amount":  35000,
	}
}

type orderBody struct {
	ID             string `json:"id"`
	OrderNumber    string `json:"order_number"`
	Status         string `json:"status"`
	TotalAmount    int64  `json:"total_amount"`
	TrackingNumber string `json:"tracking_number"`
	ShippingZip    string `json:"shipping_zip"`
	Country        string `json:"shipping_country"`
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/cart", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/cart", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoleRequired(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "user-1", "customer")
	admin := env.token(t, "admin-1", auth.RoleAdmin)

	w := env.do(t, http.MethodGet, "/api/admin/orders", customer, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/orders", admin, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "customer")

	w := env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": 1, "name": "Collar artesanal", "price": 10000, "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Items []struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		} `json:"items"`
		Total int64 `json:"total"`
		Count int   `json:"count"`
	}
	decodeEnvelope(t, w, &cart)
	assert.Equal(t, int64(20000), cart.Total)

	// Re-adding merges quantities instead of duplicating the line.
	w = env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": 1, "name": "Collar artesanal", "price": 10000, "quantity": 1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	w = env.do(t, http.MethodPut, "/api/cart/items/1", token, map[string]any{"quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w, &cart)
	assert.Equal(t, 1, cart.Count)

	w = env.do(t, http.MethodPut, "/api/cart/items/abc", token, map[string]any{"quantity": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/cart", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w, &cart)
	assert.Equal(t, 0, cart.Count)
}

func TestWishlistEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "customer")

	add := map[string]any{"product_id": 7, "name": "Aretes", "price": 8000}
	w := env.do(t, http.MethodPost, "/api/wishlist", token, add, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var added struct {
		Added bool `json:"added"`
	}
	decodeEnvelope(t, w, &added)
	assert.True(t, added.Added)

	w = env.do(t, http.MethodPost, "/api/wishlist", token, add, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env2 := decodeEnvelope(t, w, &added)
	assert.False(t, added.Added)
	assert.Equal(t, "Ya estaba en favoritos", env2.Message)

	w = env.do(t, http.MethodDelete, "/api/wishlist/7", token, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrder_IdempotencyKeyHeader(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "customer")
	headers := map[string]string{"Idempotency-Key": "checkout-1"}

	w := env.do(t, http.MethodPost, "/api/orders", token, createOrderBody(), headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var first orderBody
	decodeEnvelope(t, w, &first)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "Colombia", first.Country)

	// Same key, same payload: the original order is replayed.
	w = env.do(t, http.MethodPost, "/api/orders", token, createOrderBody(), headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var second orderBody
	decodeEnvelope(t, w, &second)
	assert.Equal(t, first.ID, second.ID)

	// Same key, different payload: conflict.
	changed := createOrderBody()
	changed["comments"] = "otra cosa"
	w = env.do(t, http.MethodPost, "/api/orders", token, changed, headers)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateOrder_TotalMismatchRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "customer")

	body := createOrderBody()
	body["total_amount"] = 25000
	w := env.do(t, http.MethodPost, "/api/orders", token, body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "user-1", "customer")
	admin := env.token(t, "admin-1", auth.RoleAdmin)

	w := env.do(t, http.MethodPost, "/api/orders", customer, createOrderBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order orderBody
	decodeEnvelope(t, w, &order)

	patch := func(body map[string]any) *httptest.ResponseRecorder {
		return env.do(t, http.MethodPut, "/api/admin/orders/"+order.ID, admin, body, nil)
	}

	require.Equal(t, http.StatusOK, patch(map[string]any{"status": "confirmed"}).Code)
	require.Equal(t, http.StatusOK, patch(map[string]any{"status": "processing"}).Code)

	// Shipping without tracking info is rejected and the status is unchanged.
	w = patch(map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/orders/"+order.ID, customer, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Order orderBody `json:"order"`
	}
	decodeEnvelope(t, w, &detail)
	assert.Equal(t, "processing", detail.Order.Status)

	// A malformed tracking URL is also rejected.
	w = patch(map[string]any{"status": "shipped", "tracking_number": "GUIA123", "tracking_url": "not-a-url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = patch(map[string]any{"status": "shipped", "tracking_number": "GUIA123", "tracking_url": "https://track.example.com/GUIA123"})
	require.Equal(t, http.StatusOK, w.Code)
	var shipped orderBody
	decodeEnvelope(t, w, &shipped)
	assert.Equal(t, "shipped", shipped.Status)
	assert.Equal(t, "GUIA123", shipped.TrackingNumber)

	// Skipping a step is rejected.
	w = env.do(t, http.MethodPost, "/api/orders", customer, createOrderBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var fresh orderBody
	decodeEnvelope(t, w, &fresh)
	w = env.do(t, http.MethodPut, "/api/admin/orders/"+fresh.ID, admin, map[string]any{"status": "shipped"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, patch(map[string]any{"status": "delivered"}).Code)

	// Rating is allowed once delivered, for snapshotted products only.
	w = env.do(t, http.MethodPost, "/api/product-ratings", customer, map[string]any{
		"product_id": 1, "order_id": order.ID, "rating": 5,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rating struct {
		Stars int `json:"stars"`
	}
	decodeEnvelope(t, w, &rating)
	assert.Equal(t, 5, rating.Stars)

	w = env.do(t, http.MethodPost, "/api/product-ratings", customer, map[string]any{
		"product_id": 99, "order_id": order.ID, "rating": 5,
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodPost, "/api/product-ratings", customer, map[string]any{
		"product_id": 1, "order_id": order.ID, "rating": 9,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHistory_OwnershipHidesExistence(t *testing.T) {
	env := newTestEnv(t)
	owner := env.token(t, "user-1", "customer")
	other := env.token(t, "user-2", "customer")

	w := env.do(t, http.MethodPost, "/api/orders", owner, createOrderBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order orderBody
	decodeEnvelope(t, w, &order)

	// Another user's probe and a missing id produce identical responses.
	forOther := env.do(t, http.MethodGet, "/api/orders/"+order.ID, other, nil, nil)
	missing := env.do(t, http.MethodGet, "/api/orders/does-not-exist", other, nil, nil)
	assert.Equal(t, http.StatusNotFound, forOther.Code)
	assert.Equal(t, forOther.Body.String(), missing.Body.String())

	w = env.do(t, http.MethodGet, "/api/user/orders", owner, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []orderBody
	envMine := decodeEnvelope(t, w, &mine)
	require.Len(t, mine, 1)
	require.NotNil(t, envMine.Pagination)
	assert.Equal(t, int64(1), envMine.Pagination.Total)

	w = env.do(t, http.MethodGet, "/api/user/orders", other, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var theirs []orderBody
	decodeEnvelope(t, w, &theirs)
	assert.Empty(t, theirs)

	w = env.do(t, http.MethodGet, "/api/user/orders?status=bogus", owner, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminListAndStats(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "user-1", "customer")
	admin := env.token(t, "admin-1", auth.RoleAdmin)

	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/orders", customer, createOrderBody(), nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/admin/orders?page=1&per_page=2", admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page []orderBody
	envPage := decodeEnvelope(t, w, &page)
	assert.Len(t, page, 2)
	require.NotNil(t, envPage.Pagination)
	assert.Equal(t, int64(3), envPage.Pagination.Total)
	assert.Equal(t, 2, envPage.Pagination.PerPage)

	w = env.do(t, http.MethodGet, "/api/admin/orders?search=ana", admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	envSearch := decodeEnvelope(t, w, &page)
	assert.Equal(t, int64(3), envSearch.Pagination.Total)

	w = env.do(t, http.MethodGet, "/api/admin/orders/stats", admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalOrders  int64            `json:"total_orders"`
		StatusCounts map[string]int64 `json:"status_counts"`
		TotalSales   int64            `json:"total_sales"`
	}
	decodeEnvelope(t, w, &stats)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.StatusCounts["pending"])
	assert.Zero(t, stats.TotalSales)
}

func TestAdminDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "user-1", "customer")
	admin := env.token(t, "admin-1", auth.RoleAdmin)

	w := env.do(t, http.MethodPost, "/api/orders", customer, createOrderBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order orderBody
	decodeEnvelope(t, w, &order)

	w = env.do(t, http.MethodDelete, "/api/admin/orders/"+order.ID, admin, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/orders/"+order.ID, admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "customer")

	w := env.do(t, http.MethodGet, "/api/shipping-methods", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var methods []struct {
		ID    string `json:"id"`
		Price int64  `json:"price"`
	}
	decodeEnvelope(t, w, &methods)
	require.Len(t, methods, 2)

	// Checkout over an empty cart is rejected.
	w = env.do(t, http.MethodPost, "/api/checkout", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": 1, "name": "Collar artesanal", "price": 10000, "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"product_id": 2, "name": "Pulsera", "price": 5000, "quantity": 1,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Step int `json:"step"`
	}
	decodeEnvelope(t, w, &session)
	assert.Equal(t, 1, session.Step)

	// Advancing with an empty form fails.
	w = env.do(t, http.MethodPost, "/api/checkout/next", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	form := map[string]any{
		"first_name":      "Ana",
		"last_name":       "Gomez",
		"email":           "ana@example.com",
		"phone":           "3001234567",
		"address":         "Calle 1 # 2-3",
		"city":            "Bogota",
		"state":           "Cundinamarca",
		"zip_code":        "110111",
		"shipping_method": "interrapidisimo_bogota",
		"payment_method":  "transfer",
	}
	w = env.do(t, http.MethodPut, "/api/checkout/form", token, form, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout/next", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/api/checkout/next", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w, &session)
	assert.Equal(t, 3, session.Step)

	// Confirming before placement is a conflict.
	w = env.do(t, http.MethodPost, "/api/checkout/confirm", token, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/checkout/submit", token, nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var placed struct {
		OrderNumber string `json:"order_number"`
		TotalAmount int64  `json:"total_amount"`
		HandoffLink string `json:"handoff_link"`
	}
	decodeEnvelope(t, w, &placed)
	assert.NotEmpty(t, placed.OrderNumber)
	assert.Equal(t, int64(35000), placed.TotalAmount)
	assert.Contains(t, placed.HandoffLink, "wa.me/573001112233")

	// The cart survives until the handoff is confirmed.
	w = env.do(t, http.MethodGet, "/api/cart", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Count int `json:"count"`
	}
	decodeEnvelope(t, w, &cart)
	assert.Equal(t, 3, cart.Count)

	// Resubmitting returns the same placement instead of a new order.
	w = env.do(t, http.MethodPost, "/api/checkout/submit", token, nil, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var replayed struct {
		OrderNumber string `json:"order_number"`
	}
	decodeEnvelope(t, w, &replayed)
	assert.Equal(t, placed.OrderNumber, replayed.OrderNumber)

	w = env.do(t, http.MethodPost, "/api/checkout/confirm", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/cart", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeEnvelope(t, w, &cart)
	assert.Equal(t, 0, cart.Count)

	// The placed order shows up in the user's history.
	w = env.do(t, http.MethodGet, "/api/user/orders", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []orderBody
	decodeEnvelope(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, placed.OrderNumber, mine[0].OrderNumber)
	assert.Equal(t, int64(35000), mine[0].TotalAmount)
}

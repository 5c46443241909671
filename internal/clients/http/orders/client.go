package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	checkoutports "github.com/bapesu/storefront-api/internal/domains/checkout/ports"
)

var _ checkoutports.OrderPlacer = (*Client)(nil)

// Client submits order-create requests to the order service over HTTP. It
// implements the checkout OrderPlacer port so the checkout flow can run
// against a remote order API as well as the in-process one.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the orders client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("orders base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

type createOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		TotalAmount int64  `json:"total_amount"`
	} `json:"data"`
}

type errorBody struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// PlaceOrder posts the order snapshot and returns the receipt. The request's
// idempotency key travels in the Idempotency-Key header so retries after a
// timeout cannot create duplicates.
func (c *Client) PlaceOrder(ctx context.Context, token string, request checkoutports.CreateOrderRequest) (*checkoutports.OrderReceipt, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("orders client not configured")
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token = strings.TrimSpace(token); token != "" {
		if !strings.HasPrefix(token, "Bearer ") {
			token = "Bearer " + token
		}
		req.Header.Set("Authorization", token)
	}
	if key := strings.TrimSpace(request.IdempotencyKey); key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call order API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		var body createOrderResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode order response: %w", err)
		}
		return &checkoutports.OrderReceipt{
			OrderID:     body.Data.ID,
			OrderNumber: body.Data.OrderNumber,
			TotalAmount: body.Data.TotalAmount,
		}, nil
	case resp.StatusCode == http.StatusConflict:
		return nil, fmt.Errorf("order API idempotency conflict: %s", errorMessage(resp, resp.Status))
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("order API error: %s", errorMessage(resp, resp.Status))
	default:
		return nil, fmt.Errorf("order API unexpected status: %s", resp.Status)
	}
}

func errorMessage(resp *http.Response, fallback string) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(body.Detail); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Title); msg != "" {
		return msg
	}
	return fallback
}

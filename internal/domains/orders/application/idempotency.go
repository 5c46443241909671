package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/bapesu/storefront-api/internal/domains/orders/domain"
	"github.com/bapesu/storefront-api/internal/domains/orders/ports"
)

type normalizedCreateOrder struct {
	OwnerID         string           `json:"ownerId"`
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerPhone   string           `json:"customerPhone"`
	ShippingAddress string           `json:"shippingAddress"`
	ShippingCity    string           `json:"shippingCity"`
	ShippingState   string           `json:"shippingState"`
	ShippingZip     string           `json:"shippingZip"`
	ShippingCountry string           `json:"shippingCountry"`
	ShippingMethod  string           `json:"shippingMethod"`
	PaymentMethod   string           `json:"paymentMethod"`
	Items           []normalizedItem `json:"items"`
	Subtotal        int64            `json:"subtotal"`
	ShippingCost    int64            `json:"shippingCost"`
	Total           int64            `json:"total"`
	Comments        string           `json:"comments"`
}

type normalizedItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// FingerprintCreateOrder builds a deterministic hash of the create request,
// excluding the idempotency key itself.
func FingerprintCreateOrder(input ports.CreateOrderInput) (string, error) {
	payload, err := json.Marshal(normalizeCreateOrder(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeCreateOrder(input ports.CreateOrderInput) normalizedCreateOrder {
	return normalizedCreateOrder{
		OwnerID:         input.OwnerID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZip:     input.ShippingZip,
		ShippingCountry: input.ShippingCountry,
		ShippingMethod:  input.ShippingMethod,
		PaymentMethod:   input.PaymentMethod,
		Items:           normalizeItems(input.Items),
		Subtotal:        input.Subtotal,
		ShippingCost:    input.ShippingCost,
		Total:           input.Total,
		Comments:        input.Comments,
	}
}

func normalizeItems(items []domain.Item) []normalizedItem {
	normalized := make([]normalizedItem, 0, len(items))
	for _, item := range items {
		normalized = append(normalized, normalizedItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return normalized
}

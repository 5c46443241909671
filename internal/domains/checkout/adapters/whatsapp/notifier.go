package whatsapp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bapesu/storefront-api/internal/domains/checkout/ports"
)

var _ ports.HandoffNotifier = (*Notifier)(nil)

// Notifier builds the WhatsApp deep link the buyer follows to complete the
// bank-transfer handoff. The link carries the full order summary so the
// merchant can reconcile the transfer against the order number.
type Notifier struct {
	phone string
}

// NewNotifier wires the notifier with the merchant's WhatsApp phone number
// in international format without the plus sign.
func NewNotifier(phone string) *Notifier {
	return &Notifier{phone: phone}
}

// Notify renders the handoff link for a placed order.
func (n *Notifier) Notify(_ context.Context, request ports.CreateOrderRequest, receipt ports.OrderReceipt) (string, error) {
	if strings.TrimSpace(n.phone) == "" {
		return "", nil
	}
	message := buildMessage(request, receipt)
	return fmt.Sprintf("https://wa.me/%s?text=%s", n.phone, url.QueryEscape(message)), nil
}

func buildMessage(request ports.CreateOrderRequest, receipt ports.OrderReceipt) string {
	items := make([]string, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}
	var b strings.Builder
	b.WriteString("*NUEVO PEDIDO - TRANSFERENCIA BANCARIA*\n\n")
	fmt.Fprintf(&b, "*Número de Orden:* %s\n", receipt.OrderNumber)
	fmt.Fprintf(&b, "*Cliente:* %s\n", request.CustomerName)
	fmt.Fprintf(&b, "*Email:* %s\n", request.CustomerEmail)
	fmt.Fprintf(&b, "*Teléfono:* %s\n", request.CustomerPhone)
	fmt.Fprintf(&b, "*Dirección:* %s, %s, %s\n\n", request.ShippingAddress, request.ShippingCity, request.ShippingState)
	b.WriteString("*Productos:*\n")
	b.WriteString(strings.Join(items, ", "))
	b.WriteString("\n\n*Resumen:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", formatCOP(request.Subtotal))
	fmt.Fprintf(&b, "Envío: %s\n", formatCOP(request.ShippingCost))
	fmt.Fprintf(&b, "*Total: %s*\n\n", formatCOP(request.TotalAmount))
	fmt.Fprintf(&b, "*Método de Envío:* %s\n\n", request.ShippingMethod)
	b.WriteString("Por favor, proporciona los datos bancarios para la transferencia.")
	return b.String()
}

// formatCOP renders an integer peso amount with thousands separators,
// e.g. 14500 -> "$14.500".
func formatCOP(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	out := "$" + strings.Join(groups, ".")
	if negative {
		out = "-" + out
	}
	return out
}

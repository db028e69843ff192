package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

type Line struct {
	LineID         string          `json:"lineId"`
	ItemID         string          `json:"itemId"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	Customizations string          `json:"customizations,omitempty"`
}

// Order is the persisted form of a placed checkout. Only the payment method
// and the last four card digits are kept.
type Order struct {
	ID            string                 `json:"orderId"`
	SessionID     string                 `json:"sessionId"`
	Status        Status                 `json:"status"`
	Lines         []Line                 `json:"lines"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	DeliveryFee   decimal.Decimal        `json:"deliveryFee"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	Address       checkout.Address       `json:"address"`
	PaymentMethod checkout.PaymentMethod `json:"paymentMethod"`
	CardLast4     string                 `json:"cardLast4,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// FromCheckout converts a submission into a confirmed order.
func FromCheckout(co checkout.Order) *Order {
	o := &Order{
		ID:            co.ID,
		SessionID:     co.SessionID,
		Status:        StatusConfirmed,
		Subtotal:      co.Totals.Subtotal,
		DeliveryFee:   co.Totals.DeliveryFee,
		Tax:           co.Totals.Tax,
		Total:         co.Totals.Total,
		Address:       co.Address,
		PaymentMethod: co.Payment.Method,
		CreatedAt:     co.RequestedAt,
	}
	if co.Payment.Card != nil {
		o.CardLast4 = co.Payment.Card.Last4()
	}
	for _, l := range co.Lines {
		o.Lines = append(o.Lines, Line{
			LineID:         l.ID,
			ItemID:         l.ItemID,
			Name:           l.Name,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			Customizations: l.Summary,
		})
	}
	return o
}

// sameContents compares what was ordered, delivered where and paid how.
// Status and timestamps are ignored.
func (o *Order) sameContents(other *Order) bool {
	if len(o.Lines) != len(other.Lines) {
		return false
	}
	for i, l := range o.Lines {
		m := other.Lines[i]
		if l.LineID != m.LineID || l.ItemID != m.ItemID || l.Name != m.Name ||
			l.Quantity != m.Quantity || l.Customizations != m.Customizations || !l.UnitPrice.Equal(m.UnitPrice) {
			return false
		}
	}
	return o.Subtotal.Equal(other.Subtotal) && o.DeliveryFee.Equal(other.DeliveryFee) &&
		o.Tax.Equal(other.Tax) && o.Total.Equal(other.Total) &&
		o.Address == other.Address && o.PaymentMethod == other.PaymentMethod && o.CardLast4 == other.CardLast4
}

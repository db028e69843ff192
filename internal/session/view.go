package session

import (
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

type CartView struct {
	SessionID string
	Lines     []cart.Line
	ItemCount int
	Totals    cart.Totals
	Locked    bool
}

// CheckoutView never carries raw card data.
type CheckoutView struct {
	SessionID     string
	Step          checkout.Step
	Address       checkout.Address
	PaymentMethod checkout.PaymentMethod
	CardLast4     string
	Cart          CartView
	OrderID       string
	Submitting    bool
}

func (s *Service) cartView(id string, e *entry) CartView {
	return CartView{
		SessionID: id,
		Lines:     e.cart.Lines(),
		ItemCount: e.cart.ItemCount(),
		Totals:    e.cart.Totals(s.fees),
		Locked:    !e.cartEditable(),
	}
}

func (s *Service) checkoutView(id string, e *entry) CheckoutView {
	co := e.checkout
	v := CheckoutView{
		SessionID:     id,
		Step:          co.Step(),
		Address:       co.Address(),
		PaymentMethod: co.Payment().Method,
		Cart:          s.cartView(id, e),
		OrderID:       co.OrderID(),
		Submitting:    co.Submitting(),
	}
	if card := co.Payment().Card; card != nil {
		v.CardLast4 = card.Last4()
	}
	return v
}

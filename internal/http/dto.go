package httpapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

// money renders amounts with two fixed decimals.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

// --- requests ---

type addItemRequest struct {
	ItemID     string                     `json:"itemId"`
	Quantity   int                        `json:"quantity"`
	Selections map[string]json.RawMessage `json:"selections,omitempty"`
}

type quoteRequest struct {
	Quantity   int                        `json:"quantity"`
	Selections map[string]json.RawMessage `json:"selections,omitempty"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type addressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (r addressRequest) toAddress() checkout.Address {
	return checkout.Address{Street: r.Street, City: r.City, PostalCode: r.PostalCode, Country: r.Country}
}

type cardRequest struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

type paymentRequest struct {
	Method string       `json:"method"`
	Card   *cardRequest `json:"card,omitempty"`
}

func (r paymentRequest) toPayment() checkout.Payment {
	p := checkout.Payment{Method: checkout.PaymentMethod(r.Method)}
	if r.Card != nil {
		p.Card = &checkout.Card{Number: r.Card.Number, Expiry: r.Card.Expiry, CVC: r.Card.CVC}
	}
	return p
}

// --- responses ---

type choiceDTO struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	PriceAdjustment string `json:"priceAdjustment"`
}

type optionDTO struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Kind           string      `json:"kind"`
	Required       bool        `json:"required"`
	MaxSelections  int         `json:"maxSelections,omitempty"`
	Default        string      `json:"default,omitempty"`
	DefaultChoices []string    `json:"defaultChoices,omitempty"`
	Choices        []choiceDTO `json:"choices,omitempty"`
}

type menuItemDTO struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	BasePrice             string      `json:"basePrice"`
	RequiresCustomization bool        `json:"requiresCustomization"`
	Options               []optionDTO `json:"options,omitempty"`
}

func toMenuItemDTO(it menu.MenuItem) menuItemDTO {
	dto := menuItemDTO{
		ID:                    it.ID,
		Name:                  it.Name,
		BasePrice:             money(it.BasePrice),
		RequiresCustomization: it.RequiresCustomization,
	}
	for _, o := range it.Options {
		od := optionDTO{
			ID:             o.ID,
			Title:          o.Title,
			Kind:           string(o.Kind),
			Required:       o.Required,
			MaxSelections:  o.MaxSelections,
			Default:        o.Default,
			DefaultChoices: o.DefaultChoices,
		}
		for _, c := range o.Choices {
			od.Choices = append(od.Choices, choiceDTO{ID: c.ID, Label: c.Label, PriceAdjustment: money(c.PriceAdjustment)})
		}
		dto.Options = append(dto.Options, od)
	}
	return dto
}

type quoteDTO struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LinePrice string `json:"linePrice"`
	Summary   string `json:"summary,omitempty"`
}

func toQuoteDTO(q pricing.Quote) quoteDTO {
	return quoteDTO{
		ItemID:    q.ItemID,
		Name:      q.ItemName,
		UnitPrice: money(q.UnitPrice),
		Quantity:  q.Quantity,
		LinePrice: money(q.LinePrice),
		Summary:   q.Summary,
	}
}

type lineDTO struct {
	LineID         string `json:"lineId"`
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	UnitPrice      string `json:"unitPrice"`
	Quantity       int    `json:"quantity"`
	LineTotal      string `json:"lineTotal"`
	Customizations string `json:"customizations,omitempty"`
}

func toLineDTO(l cart.Line) lineDTO {
	return lineDTO{
		LineID:         l.ID,
		ItemID:         l.ItemID,
		Name:           l.Name,
		UnitPrice:      money(l.UnitPrice),
		Quantity:       l.Quantity,
		LineTotal:      money(l.Total()),
		Customizations: l.Summary,
	}
}

type totalsDTO struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"deliveryFee"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

func toTotalsDTO(t cart.Totals) totalsDTO {
	return totalsDTO{
		Subtotal:    money(t.Subtotal),
		DeliveryFee: money(t.DeliveryFee),
		Tax:         money(t.Tax),
		Total:       money(t.Total),
	}
}

type cartDTO struct {
	SessionID string    `json:"sessionId"`
	Lines     []lineDTO `json:"lines"`
	ItemCount int       `json:"itemCount"`
	Totals    totalsDTO `json:"totals"`
	Locked    bool      `json:"locked"`
}

func toCartDTO(v session.CartView) cartDTO {
	dto := cartDTO{
		SessionID: v.SessionID,
		Lines:     make([]lineDTO, 0, len(v.Lines)),
		ItemCount: v.ItemCount,
		Totals:    toTotalsDTO(v.Totals),
		Locked:    v.Locked,
	}
	for _, l := range v.Lines {
		dto.Lines = append(dto.Lines, toLineDTO(l))
	}
	return dto
}

type addressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func toAddressDTO(a checkout.Address) addressDTO {
	return addressDTO{Street: a.Street, City: a.City, PostalCode: a.PostalCode, Country: a.Country}
}

type checkoutDTO struct {
	SessionID     string     `json:"sessionId"`
	Step          string     `json:"step"`
	Address       addressDTO `json:"address"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CardLast4     string     `json:"cardLast4,omitempty"`
	Cart          cartDTO    `json:"cart"`
	OrderID       string     `json:"orderId,omitempty"`
	Submitting    bool       `json:"submitting"`
}

func toCheckoutDTO(v session.CheckoutView) checkoutDTO {
	return checkoutDTO{
		SessionID:     v.SessionID,
		Step:          v.Step.String(),
		Address:       toAddressDTO(v.Address),
		PaymentMethod: string(v.PaymentMethod),
		CardLast4:     v.CardLast4,
		Cart:          toCartDTO(v.Cart),
		OrderID:       v.OrderID,
		Submitting:    v.Submitting,
	}
}

type retreatDTO struct {
	Exited   bool         `json:"exited"`
	Checkout *checkoutDTO `json:"checkout,omitempty"`
}

type receiptDTO struct {
	OrderID  string    `json:"orderId"`
	PlacedAt time.Time `json:"placedAt"`
}

type orderLineDTO struct {
	LineID         string `json:"lineId"`
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	UnitPrice      string `json:"unitPrice"`
	Quantity       int    `json:"quantity"`
	Customizations string `json:"customizations,omitempty"`
}

type orderDTO struct {
	OrderID       string         `json:"orderId"`
	SessionID     string         `json:"sessionId"`
	Status        string         `json:"status"`
	Lines         []orderLineDTO `json:"lines"`
	Totals        totalsDTO      `json:"totals"`
	Address       addressDTO     `json:"address"`
	PaymentMethod string         `json:"paymentMethod"`
	CardLast4     string         `json:"cardLast4,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func toOrderDTO(o *order.Order) orderDTO {
	dto := orderDTO{
		OrderID:   o.ID,
		SessionID: o.SessionID,
		Status:    string(o.Status),
		Lines:     make([]orderLineDTO, 0, len(o.Lines)),
		Totals: totalsDTO{
			Subtotal:    money(o.Subtotal),
			DeliveryFee: money(o.DeliveryFee),
			Tax:         money(o.Tax),
			Total:       money(o.Total),
		},
		Address:       toAddressDTO(o.Address),
		PaymentMethod: string(o.PaymentMethod),
		CardLast4:     o.CardLast4,
		CreatedAt:     o.CreatedAt,
	}
	for _, l := range o.Lines {
		dto.Lines = append(dto.Lines, orderLineDTO{
			LineID:         l.LineID,
			ItemID:         l.ItemID,
			Name:           l.Name,
			UnitPrice:      money(l.UnitPrice),
			Quantity:       l.Quantity,
			Customizations: l.Customizations,
		})
	}
	return dto
}

type errorResponse struct {
	Error         string   `json:"error"`
	Code          string   `json:"code,omitempty"`
	Missing       []string `json:"missing,omitempty"`
	OrderID       string   `json:"orderId,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
)

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a Address) missing() []string {
	var out []string
	for _, f := range []struct{ name, value string }{
		{"street", a.Street},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

type PaymentMethod string

const (
	MethodCard           PaymentMethod = "card"
	MethodExternalWallet PaymentMethod = "external_wallet"
	MethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodExternalWallet, MethodCashOnDelivery:
		return true
	}
	return false
}

// Card holds raw card fields. Format checks belong to the payment provider;
// only presence is enforced here.
type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

func (c Card) Last4() string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Number)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

type Payment struct {
	Method PaymentMethod `json:"method"`
	Card   *Card         `json:"card,omitempty"`
}

func (p Payment) equal(o Payment) bool {
	if p.Method != o.Method || (p.Card == nil) != (o.Card == nil) {
		return false
	}
	return p.Card == nil || *p.Card == *o.Card
}

func (p Payment) missing() []string {
	if !p.Method.Valid() {
		return []string{"method"}
	}
	if p.Method != MethodCard {
		return nil
	}
	if p.Card == nil {
		return []string{"card.number", "card.expiry", "card.cvc"}
	}

	var out []string
	if strings.TrimSpace(p.Card.Number) == "" {
		out = append(out, "card.number")
	}
	if strings.TrimSpace(p.Card.Expiry) == "" {
		out = append(out, "card.expiry")
	}
	if strings.TrimSpace(p.Card.CVC) == "" {
		out = append(out, "card.cvc")
	}
	return out
}

// Order is the snapshot handed to the Submitter.
type Order struct {
	ID          string
	SessionID   string
	Lines       []cart.Line
	Totals      cart.Totals
	Address     Address
	Payment     Payment
	RequestedAt time.Time
}

// sameContents reports whether o and other would place the same order. Ids
// and timestamps are ignored.
func (o Order) sameContents(other Order) bool {
	if len(o.Lines) != len(other.Lines) {
		return false
	}
	for i := range o.Lines {
		if !o.Lines[i].Equal(other.Lines[i]) {
			return false
		}
	}
	return o.Totals.Equal(other.Totals) && o.Address == other.Address && o.Payment.equal(other.Payment)
}

type Receipt struct {
	OrderID  string    `json:"orderId"`
	PlacedAt time.Time `json:"placedAt"`
}

// Submitter is the external order and payment collaborator. Submit is called at
// most once per user attempt; retries of an unchanged order reuse Order.ID.
type Submitter interface {
	Submit(ctx context.Context, o Order) (Receipt, error)
}

type SubmitterFunc func(ctx context.Context, o Order) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, o Order) (Receipt, error) { return f(ctx, o) }

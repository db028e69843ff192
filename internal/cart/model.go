package cart

import "github.com/shopspring/decimal"

// Line is one cart entry. Name and UnitPrice are snapshots taken when the line
// was created; only Quantity changes afterwards.
type Line struct {
	ID        string          `json:"lineId"`
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Summary   string          `json:"customizations,omitempty"`
}

// Customized reports whether the line came from a customization submission.
func (l Line) Customized() bool { return l.Summary != "" }

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Equal compares prices by value, so 4 and 4.00 are the same price.
func (l Line) Equal(o Line) bool {
	return l.ID == o.ID && l.ItemID == o.ItemID && l.Name == o.Name &&
		l.Quantity == o.Quantity && l.Summary == o.Summary && l.UnitPrice.Equal(o.UnitPrice)
}

type FeeSchedule struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) && t.DeliveryFee.Equal(o.DeliveryFee) &&
		t.Tax.Equal(o.Tax) && t.Total.Equal(o.Total)
}

package menu

import "github.com/shopspring/decimal"

type OptionKind string

const (
	KindSingleChoice OptionKind = "single_choice"
	KindMultiChoice  OptionKind = "multi_choice"
	KindQuantity     OptionKind = "quantity"
	KindFreeText     OptionKind = "free_text"
)

func (k OptionKind) Valid() bool {
	switch k {
	case KindSingleChoice, KindMultiChoice, KindQuantity, KindFreeText:
		return true
	}
	return false
}

type Choice struct {
	ID              string          `json:"id"`
	Label           string          `json:"label"`
	PriceAdjustment decimal.Decimal `json:"priceAdjustment"`
}

// CustomizationOption is one configurable axis of a menu item.
// Default holds the default choice id (single choice), count (quantity) or
// text (free text); DefaultChoices is only read for multi choice options.
type CustomizationOption struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Kind           OptionKind `json:"kind"`
	Choices        []Choice   `json:"choices,omitempty"`
	MaxSelections  int        `json:"maxSelections,omitempty"`
	Required       bool       `json:"required"`
	Default        string     `json:"default,omitempty"`
	DefaultChoices []string   `json:"defaultChoices,omitempty"`
}

func (o CustomizationOption) Choice(id string) (Choice, bool) {
	for _, c := range o.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

type MenuItem struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	BasePrice             decimal.Decimal       `json:"basePrice"`
	Options               []CustomizationOption `json:"options,omitempty"`
	RequiresCustomization bool                  `json:"requiresCustomization"`
}

func (m MenuItem) Option(id string) (CustomizationOption, bool) {
	for _, o := range m.Options {
		if o.ID == id {
			return o, true
		}
	}
	return CustomizationOption{}, false
}

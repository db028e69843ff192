package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
)

// Quote is a finalized price for one configured item.
type Quote struct {
	ItemID    string
	ItemName  string
	UnitPrice decimal.Decimal
	// Quantity is the requested quantity multiplied by any quantity options.
	Quantity  int
	LinePrice decimal.Decimal
	Summary   string
}

// Price computes the unit and line price of item configured by sel.
// It is a pure function: the same inputs always yield the same quote.
//
//	unit = base + sum(selected adjustments)
//	line = unit * quantity * product(quantity options)
func Price(item menu.MenuItem, quantity int, sel Selections) (Quote, error) {
	if quantity < 1 {
		return Quote{}, &InvalidQuantityError{Quantity: quantity}
	}

	for _, id := range sel.OptionIDs() {
		if _, ok := item.Option(id); !ok {
			return Quote{}, &InvalidSelectionError{OptionID: id, Reason: "unknown option"}
		}
	}

	unit := item.BasePrice
	multiplier := 1

	for _, opt := range item.Options {
		v, ok := sel.Get(opt.ID)
		if ok {
			if err := checkChoices(opt, v); err != nil {
				return Quote{}, err
			}
		}

		switch opt.Kind {
		case menu.KindSingleChoice:
			cv, _ := v.(ChoiceValue)
			if cv.ChoiceID == "" {
				if opt.Required {
					return Quote{}, &MissingRequiredSelectionError{OptionID: opt.ID}
				}
				continue
			}
			choice, _ := opt.Choice(cv.ChoiceID)
			unit = unit.Add(choice.PriceAdjustment)

		case menu.KindMultiChoice:
			cv, _ := v.(ChoicesValue)
			if opt.Required && len(cv.ChoiceIDs) == 0 {
				return Quote{}, &MissingRequiredSelectionError{OptionID: opt.ID}
			}
			if opt.MaxSelections > 0 && len(cv.ChoiceIDs) > opt.MaxSelections {
				return Quote{}, &TooManySelectionsError{OptionID: opt.ID, Max: opt.MaxSelections, Got: len(cv.ChoiceIDs)}
			}
			for _, id := range cv.ChoiceIDs {
				choice, _ := opt.Choice(id)
				unit = unit.Add(choice.PriceAdjustment)
			}

		case menu.KindQuantity:
			if qv, ok := v.(QuantityValue); ok {
				multiplier *= qv.Count
			}
		}
	}

	if unit.IsNegative() {
		return Quote{}, &NegativePriceError{ItemID: item.ID, Price: unit}
	}

	total := quantity * multiplier
	return Quote{
		ItemID:    item.ID,
		ItemName:  item.Name,
		UnitPrice: unit,
		Quantity:  total,
		LinePrice: unit.Mul(decimal.NewFromInt(int64(total))),
		Summary:   Describe(item, sel),
	}, nil
}

// Describe renders a display-only summary of the non-empty selections, in
// option order, e.g. `Choose Size: Large; Add Toppings: Extra Cheese, Bacon`.
func Describe(item menu.MenuItem, sel Selections) string {
	var parts []string
	for _, opt := range item.Options {
		v, ok := sel.Get(opt.ID)
		if !ok {
			continue
		}
		switch val := v.(type) {
		case ChoiceValue:
			if c, ok := opt.Choice(val.ChoiceID); ok {
				parts = append(parts, opt.Title+": "+c.Label)
			}
		case ChoicesValue:
			labels := make([]string, 0, len(val.ChoiceIDs))
			for _, id := range val.ChoiceIDs {
				if c, ok := opt.Choice(id); ok {
					labels = append(labels, c.Label)
				}
			}
			if len(labels) > 0 {
				parts = append(parts, opt.Title+": "+strings.Join(labels, ", "))
			}
		case QuantityValue:
			if val.Count > 1 {
				parts = append(parts, fmt.Sprintf("%s: %d", opt.Title, val.Count))
			}
		case TextValue:
			if text := strings.TrimSpace(val.Text); text != "" {
				parts = append(parts, fmt.Sprintf("%s: %q", opt.Title, text))
			}
		}
	}
	return strings.Join(parts, "; ")
}

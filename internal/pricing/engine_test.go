package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func burger(t *testing.T) menu.MenuItem {
	t.Helper()
	for _, it := range menu.SeedItems() {
		if it.ID == "m1" {
			return it
		}
	}
	t.Fatalf("seed burger missing")
	return menu.MenuItem{}
}

func TestPrice_BurgerScenario(t *testing.T) {
	item := burger(t)
	sel := Defaults(item).
		With("size", ChoiceValue{ChoiceID: "large"}).
		With("toppings", ChoicesValue{ChoiceIDs: []string{"cheese", "bacon"}})

	q, err := Price(item, 2, sel)
	require.NoError(t, err)

	assert.Equal(t, "17.49", q.UnitPrice.StringFixed(2))
	assert.Equal(t, 2, q.Quantity)
	assert.Equal(t, "34.98", q.LinePrice.StringFixed(2))
	assert.Equal(t, "Choose Size: Large; Add Toppings: Extra Cheese, Bacon", q.Summary)
}

func TestPrice_PlainItem(t *testing.T) {
	item := menu.MenuItem{ID: "s1", Name: "French Fries", BasePrice: dec("4.00")}

	q, err := Price(item, 3, NewSelections())
	require.NoError(t, err)
	assert.Equal(t, "4.00", q.UnitPrice.StringFixed(2))
	assert.Equal(t, "12.00", q.LinePrice.StringFixed(2))
	assert.Empty(t, q.Summary)
}

func TestPrice_Errors(t *testing.T) {
	many := menu.MenuItem{
		ID:        "bowl",
		BasePrice: dec("8.00"),
		Options: []menu.CustomizationOption{{
			ID: "extras", Kind: menu.KindMultiChoice, MaxSelections: 2, Required: true,
			Choices: []menu.Choice{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		}},
	}
	discounted := menu.MenuItem{
		ID:        "promo",
		BasePrice: dec("3.00"),
		Options: []menu.CustomizationOption{{
			ID: "deal", Kind: menu.KindSingleChoice,
			Choices: []menu.Choice{{ID: "huge", PriceAdjustment: dec("-5.00")}, {ID: "small", PriceAdjustment: dec("-1.00")}},
		}},
	}

	tests := map[string]struct {
		item     menu.MenuItem
		quantity int
		sel      Selections
		check    func(t *testing.T, err error)
	}{
		"required single choice missing": {
			item:     burger(t),
			quantity: 1,
			sel:      NewSelections(),
			check: func(t *testing.T, err error) {
				var target *MissingRequiredSelectionError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "size", target.OptionID)
			},
		},
		"required multi choice empty": {
			item:     many,
			quantity: 1,
			sel:      NewSelections().With("extras", ChoicesValue{}),
			check: func(t *testing.T, err error) {
				var target *MissingRequiredSelectionError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "extras", target.OptionID)
			},
		},
		"too many selections": {
			item:     many,
			quantity: 1,
			sel:      NewSelections().With("extras", ChoicesValue{ChoiceIDs: []string{"a", "b", "c"}}),
			check: func(t *testing.T, err error) {
				var target *TooManySelectionsError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 2, target.Max)
				assert.Equal(t, 3, target.Got)
			},
		},
		"negative price": {
			item:     discounted,
			quantity: 1,
			sel:      NewSelections().With("deal", ChoiceValue{ChoiceID: "huge"}),
			check: func(t *testing.T, err error) {
				var target *NegativePriceError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "-2.00", target.Price.StringFixed(2))
			},
		},
		"zero quantity": {
			item:     discounted,
			quantity: 0,
			sel:      NewSelections(),
			check: func(t *testing.T, err error) {
				var target *InvalidQuantityError
				require.ErrorAs(t, err, &target)
			},
		},
		"unknown option": {
			item:     discounted,
			quantity: 1,
			sel:      NewSelections().With("sauce", TextValue{Text: "bbq"}),
			check: func(t *testing.T, err error) {
				var target *InvalidSelectionError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "sauce", target.OptionID)
			},
		},
		"unknown choice": {
			item:     discounted,
			quantity: 1,
			sel:      NewSelections().With("deal", ChoiceValue{ChoiceID: "free"}),
			check: func(t *testing.T, err error) {
				var target *InvalidSelectionError
				require.ErrorAs(t, err, &target)
			},
		},
		"kind mismatch": {
			item:     burger(t),
			quantity: 1,
			sel:      Defaults(burger(t)).With("size", TextValue{Text: "large"}),
			check: func(t *testing.T, err error) {
				var target *InvalidSelectionError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "size", target.OptionID)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := Price(tt.item, tt.quantity, tt.sel)
			require.Error(t, err)
			assert.True(t, IsPricingError(err))
			assert.Equal(t, Quote{}, q)
			tt.check(t, err)
		})
	}
}

func TestPrice_NegativeAdjustmentAboveZeroIsAllowed(t *testing.T) {
	item := menu.MenuItem{
		ID:        "promo",
		BasePrice: dec("3.00"),
		Options: []menu.CustomizationOption{{
			ID: "deal", Kind: menu.KindSingleChoice,
			Choices: []menu.Choice{{ID: "small", PriceAdjustment: dec("-1.00")}},
		}},
	}

	q, err := Price(item, 1, NewSelections().With("deal", ChoiceValue{ChoiceID: "small"}))
	require.NoError(t, err)
	assert.Equal(t, "2.00", q.LinePrice.StringFixed(2))
}

func TestPrice_QuantityOptionMultipliesLine(t *testing.T) {
	item := menu.MenuItem{
		ID:        "wings",
		Name:      "Wings",
		BasePrice: dec("6.00"),
		Options: []menu.CustomizationOption{
			{ID: "portions", Title: "Portions", Kind: menu.KindQuantity},
			{ID: "dip", Title: "Dip", Kind: menu.KindSingleChoice, Choices: []menu.Choice{{ID: "ranch", Label: "Ranch", PriceAdjustment: dec("0.50")}}},
		},
	}

	sel := Defaults(item).
		With("portions", QuantityValue{Count: 3}).
		With("dip", ChoiceValue{ChoiceID: "ranch"})

	q, err := Price(item, 2, sel)
	require.NoError(t, err)
	assert.Equal(t, 6, q.Quantity)
	assert.Equal(t, "6.50", q.UnitPrice.StringFixed(2))
	assert.Equal(t, "39.00", q.LinePrice.StringFixed(2))
	assert.Equal(t, "Portions: 3; Dip: Ranch", q.Summary)
}

func TestPrice_Monotonic(t *testing.T) {
	item := burger(t)
	base := Defaults(item).With("size", ChoiceValue{ChoiceID: "large"})

	toppings := []string{"cheese", "bacon", "avocado"}
	var (
		chosen []string
		prev   decimal.Decimal
	)
	for i := 0; i <= len(toppings); i++ {
		if i > 0 {
			chosen = append(chosen, toppings[i-1])
		}
		q, err := Price(item, 1, base.With("toppings", ChoicesValue{ChoiceIDs: chosen}))
		require.NoError(t, err)
		if i > 0 {
			assert.True(t, q.LinePrice.GreaterThanOrEqual(prev), "adding %s lowered the price", toppings[i-1])
		}
		prev = q.LinePrice
	}
}

func TestPrice_QuantityLinearity(t *testing.T) {
	item := burger(t)
	sel := Defaults(item).
		With("size", ChoiceValue{ChoiceID: "large"}).
		With("toppings", ChoicesValue{ChoiceIDs: []string{"avocado"}}).
		With("notes", TextValue{Text: "no onions"})

	one, err := Price(item, 1, sel)
	require.NoError(t, err)

	for qty := 1; qty <= 12; qty++ {
		q, err := Price(item, qty, sel)
		require.NoError(t, err)
		want := one.LinePrice.Mul(decimal.NewFromInt(int64(qty)))
		assert.True(t, q.LinePrice.Equal(want), "qty %d: got %s want %s", qty, q.LinePrice, want)
		assert.True(t, q.UnitPrice.Equal(one.UnitPrice))
	}
}

func TestPrice_IsIdempotent(t *testing.T) {
	item := burger(t)
	sel := Defaults(item).With("toppings", ChoicesValue{ChoiceIDs: []string{"cheese"}})

	first, err := Price(item, 2, sel)
	require.NoError(t, err)
	// deselecting and reselecting must not drift the price
	sel = sel.With("toppings", ChoicesValue{}).With("toppings", ChoicesValue{ChoiceIDs: []string{"cheese"}})
	second, err := Price(item, 2, sel)
	require.NoError(t, err)

	assert.True(t, first.LinePrice.Equal(second.LinePrice))
}

func TestIsPricingError(t *testing.T) {
	assert.False(t, IsPricingError(errors.New("boom")))
	assert.True(t, IsPricingError(&CustomizationRequiredError{ItemID: "m1"}))
}

package menu

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryCatalog serves menu items from process memory. Items are copied on
// the way in and out so callers never share option slices with the catalog.
type MemoryCatalog struct {
	mu    sync.RWMutex
	order []string
	items map[string]MenuItem
}

func NewMemoryCatalog(items ...MenuItem) *MemoryCatalog {
	c := &MemoryCatalog{items: make(map[string]MenuItem, len(items))}
	for _, it := range items {
		c.Put(it)
	}
	return c
}

func (c *MemoryCatalog) Put(item MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[item.ID]; !ok {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = cloneItem(item)
}

func (c *MemoryCatalog) GetMenuItem(ctx context.Context, itemID string) (MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[itemID]
	if !ok {
		return MenuItem{}, ErrNotFound
	}
	return cloneItem(it), nil
}

func (c *MemoryCatalog) ListItems(ctx context.Context) ([]MenuItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MenuItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneItem(c.items[id]))
	}
	return out, nil
}

func cloneItem(it MenuItem) MenuItem {
	if it.Options == nil {
		return it
	}
	opts := make([]CustomizationOption, len(it.Options))
	for i, o := range it.Options {
		o.Choices = append([]Choice(nil), o.Choices...)
		o.DefaultChoices = append([]string(nil), o.DefaultChoices...)
		opts[i] = o
	}
	it.Options = opts
	return it
}

// SeedItems is the demo menu of the "Gourmet Burger Kitchen" restaurant.
// The same rows are inserted by the seed migration for the postgres catalog.
func SeedItems() []MenuItem {
	burgerOptions := []CustomizationOption{
		{
			ID:       "size",
			Title:    "Choose Size",
			Kind:     KindSingleChoice,
			Required: true,
			Default:  "regular",
			Choices: []Choice{
				{ID: "regular", Label: "Regular"},
				{ID: "large", Label: "Large", PriceAdjustment: decimal.RequireFromString("2.00")},
			},
		},
		{
			ID:            "toppings",
			Title:         "Add Toppings",
			Kind:          KindMultiChoice,
			MaxSelections: 3,
			Choices: []Choice{
				{ID: "cheese", Label: "Extra Cheese", PriceAdjustment: decimal.RequireFromString("1.00")},
				{ID: "bacon", Label: "Bacon", PriceAdjustment: decimal.RequireFromString("1.50")},
				{ID: "avocado", Label: "Avocado", PriceAdjustment: decimal.RequireFromString("1.75")},
			},
		},
		{
			ID:    "spice",
			Title: "Spice Level",
			Kind:  KindSingleChoice,
			Choices: []Choice{
				{ID: "mild", Label: "Mild"},
				{ID: "medium", Label: "Medium"},
				{ID: "hot", Label: "Hot"},
			},
		},
		{ID: "notes", Title: "Special Instructions", Kind: KindFreeText},
	}

	return []MenuItem{
		{ID: "m1", Name: "Classic Beef Burger", BasePrice: decimal.RequireFromString("12.99"), Options: burgerOptions, RequiresCustomization: true},
		{ID: "m2", Name: "Spicy Chicken Burger", BasePrice: decimal.RequireFromString("11.50")},
		{ID: "s1", Name: "French Fries", BasePrice: decimal.RequireFromString("4.00")},
		{ID: "s2", Name: "Onion Rings", BasePrice: decimal.RequireFromString("5.50")},
		{ID: "d1", Name: "Cola", BasePrice: decimal.RequireFromString("2.50")},
		{ID: "d2", Name: "Lemonade", BasePrice: decimal.RequireFromString("3.00")},
	}
}

package menu

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalog_GetMenuItem(t *testing.T) {
	catalog := NewMemoryCatalog(SeedItems()...)

	item, err := catalog.GetMenuItem(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, "Classic Beef Burger", item.Name)
	require.True(t, item.RequiresCustomization)
	require.Len(t, item.Options, 4)

	_, err = catalog.GetMenuItem(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCatalog_ReturnsCopies(t *testing.T) {
	catalog := NewMemoryCatalog(SeedItems()...)

	first, err := catalog.GetMenuItem(context.Background(), "m1")
	require.NoError(t, err)
	first.Options[0].Choices[1].PriceAdjustment = decimal.NewFromInt(100)
	first.Options = nil

	second, err := catalog.GetMenuItem(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, second.Options, 4)
	large, ok := second.Options[0].Choice("large")
	require.True(t, ok)
	require.True(t, large.PriceAdjustment.Equal(decimal.RequireFromString("2.00")))
}

func TestMemoryCatalog_ListItemsKeepsInsertionOrder(t *testing.T) {
	catalog := NewMemoryCatalog(SeedItems()...)
	catalog.Put(MenuItem{ID: "s1", Name: "Curly Fries", BasePrice: decimal.RequireFromString("4.50")})

	items, err := catalog.ListItems(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	require.Equal(t, []string{"m1", "m2", "s1", "s2", "d1", "d2"}, ids)
	require.Equal(t, "Curly Fries", items[2].Name)
}

package menu

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("menu item not found")

// Catalog is the read-only source of menu items. Items returned are treated
// as immutable by callers.
type Catalog interface {
	GetMenuItem(ctx context.Context, itemID string) (MenuItem, error)
	ListItems(ctx context.Context) ([]MenuItem, error)
}

package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresCatalog struct {
	pool DBPool
}

func NewPostgresCatalog(pool DBPool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

const (
	selectItemSQL = `SELECT id, name, base_price::text, requires_customization
		FROM menu_items
		WHERE id=$1`

	selectItemsSQL = `SELECT id, name, base_price::text, requires_customization
		FROM menu_items
		ORDER BY position, id`

	selectOptionsSQL = `SELECT id, title, kind, max_selections, required,
			COALESCE(default_value, ''), COALESCE(default_choices, '{}')
		FROM menu_options
		WHERE item_id=$1
		ORDER BY position`

	selectChoicesSQL = `SELECT option_id, id, label, price_adjustment::text
		FROM menu_choices
		WHERE item_id=$1
		ORDER BY position`
)

func (c *PostgresCatalog) GetMenuItem(ctx context.Context, itemID string) (MenuItem, error) {
	var (
		item  MenuItem
		price string
	)
	row := c.pool.QueryRow(ctx, selectItemSQL, itemID)
	if err := row.Scan(&item.ID, &item.Name, &price, &item.RequiresCustomization); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MenuItem{}, ErrNotFound
		}
		return MenuItem{}, fmt.Errorf("load menu item %s: %w", itemID, err)
	}

	base, err := decimal.NewFromString(price)
	if err != nil {
		return MenuItem{}, fmt.Errorf("parse base price of %s: %w", itemID, err)
	}
	item.BasePrice = base

	if err := c.loadOptions(ctx, &item); err != nil {
		return MenuItem{}, err
	}
	return item, nil
}

func (c *PostgresCatalog) ListItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := c.pool.Query(ctx, selectItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	var items []MenuItem
	for rows.Next() {
		var (
			item  MenuItem
			price string
		)
		if err := rows.Scan(&item.ID, &item.Name, &price, &item.RequiresCustomization); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if item.BasePrice, err = decimal.NewFromString(price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse base price of %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	for i := range items {
		if err := c.loadOptions(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (c *PostgresCatalog) loadOptions(ctx context.Context, item *MenuItem) error {
	rows, err := c.pool.Query(ctx, selectOptionsSQL, item.ID)
	if err != nil {
		return fmt.Errorf("load options of %s: %w", item.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			opt  CustomizationOption
			kind string
		)
		if err := rows.Scan(&opt.ID, &opt.Title, &kind, &opt.MaxSelections, &opt.Required, &opt.Default, &opt.DefaultChoices); err != nil {
			return fmt.Errorf("scan option of %s: %w", item.ID, err)
		}
		opt.Kind = OptionKind(kind)
		if !opt.Kind.Valid() {
			return fmt.Errorf("option %s of %s has unknown kind %q", opt.ID, item.ID, kind)
		}
		if len(opt.DefaultChoices) == 0 {
			opt.DefaultChoices = nil
		}
		item.Options = append(item.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load options of %s: %w", item.ID, err)
	}
	rows.Close()

	if len(item.Options) == 0 {
		return nil
	}
	return c.loadChoices(ctx, item)
}

func (c *PostgresCatalog) loadChoices(ctx context.Context, item *MenuItem) error {
	rows, err := c.pool.Query(ctx, selectChoicesSQL, item.ID)
	if err != nil {
		return fmt.Errorf("load choices of %s: %w", item.ID, err)
	}
	defer rows.Close()

	index := make(map[string]int, len(item.Options))
	for i, o := range item.Options {
		index[o.ID] = i
	}

	for rows.Next() {
		var (
			optionID, adj string
			ch            Choice
		)
		if err := rows.Scan(&optionID, &ch.ID, &ch.Label, &adj); err != nil {
			return fmt.Errorf("scan choice of %s: %w", item.ID, err)
		}
		if ch.PriceAdjustment, err = decimal.NewFromString(adj); err != nil {
			return fmt.Errorf("parse adjustment of %s/%s: %w", optionID, ch.ID, err)
		}
		i, ok := index[optionID]
		if !ok {
			return fmt.Errorf("choice %s references unknown option %s", ch.ID, optionID)
		}
		item.Options[i].Choices = append(item.Options[i].Choices, ch)
	}
	return rows.Err()
}

package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Cart is an ordered sequence of lines; order is insertion order and survives
// quantity changes. A Cart has a single owner and is not safe for concurrent use.
type Cart struct {
	ID    string
	lines []Line
}

func New(id string) *Cart {
	return &Cart{ID: id}
}

// Add inserts line, or merges it into an existing uncustomized line for the
// same menu item by adding quantities. Customized lines are never merged.
// The stored line is returned.
func (c *Cart) Add(line Line) (Line, error) {
	if line.Quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}

	if !line.Customized() {
		for i := range c.lines {
			existing := &c.lines[i]
			if existing.ItemID == line.ItemID && !existing.Customized() {
				existing.Quantity += line.Quantity
				return *existing, nil
			}
		}
	}

	c.lines = append(c.lines, line)
	return line, nil
}

// UpdateQuantity sets the quantity of a line in place. A quantity below one
// removes the line, exactly like Remove.
func (c *Cart) UpdateQuantity(lineID string, quantity int) error {
	if quantity < 1 {
		c.Remove(lineID)
		return nil
	}
	i := c.index(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Quantity = quantity
	return nil
}

// Remove deletes a line. Removing an unknown id is a no-op.
func (c *Cart) Remove(lineID string) {
	i := c.index(lineID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Line(lineID string) (Line, bool) {
	i := c.index(lineID)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Lines returns a copy of the lines in cart order.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() { c.lines = nil }

// Totals derives the money summary of the cart without mutating it.
// Tax is rounded to cents once, here; the total is the sum of the displayed
// components so the receipt always adds up.
func (c *Cart) Totals(fees FeeSchedule) Totals {
	subtotal := decimal.Zero
	for _, l := range c.lines {
		subtotal = subtotal.Add(l.Total())
	}

	fee := decimal.Zero
	if len(c.lines) > 0 {
		fee = fees.DeliveryFee
	}

	tax := subtotal.Mul(fees.TaxRate).Round(2)

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}

func (c *Cart) index(lineID string) int {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error is implemented by every pricing failure. All of them are recoverable
// by correcting the selection set or quantity and pricing again.
type Error interface {
	error
	pricingError()
}

type MissingRequiredSelectionError struct {
	OptionID string
}

func (e *MissingRequiredSelectionError) Error() string {
	return fmt.Sprintf("option %q requires a selection", e.OptionID)
}

type TooManySelectionsError struct {
	OptionID string
	Max      int
	Got      int
}

func (e *TooManySelectionsError) Error() string {
	return fmt.Sprintf("option %q allows at most %d selections, got %d", e.OptionID, e.Max, e.Got)
}

type NegativePriceError struct {
	ItemID string
	Price  decimal.Decimal
}

func (e *NegativePriceError) Error() string {
	return fmt.Sprintf("item %q prices at %s after adjustments", e.ItemID, e.Price.StringFixed(2))
}

type InvalidSelectionError struct {
	OptionID string
	Reason   string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("option %q: %s", e.OptionID, e.Reason)
}

type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1, got %d", e.Quantity)
}

// CustomizationRequiredError is returned when a plain add is attempted for an
// item that must be customized first.
type CustomizationRequiredError struct {
	ItemID string
}

func (e *CustomizationRequiredError) Error() string {
	return fmt.Sprintf("item %q must be customized before it can be added", e.ItemID)
}

func (*MissingRequiredSelectionError) pricingError() {}
func (*TooManySelectionsError) pricingError()        {}
func (*NegativePriceError) pricingError()            {}
func (*InvalidSelectionError) pricingError()         {}
func (*InvalidQuantityError) pricingError()          {}
func (*CustomizationRequiredError) pricingError()    {}

func IsPricingError(err error) bool {
	var pe Error
	return errors.As(err, &pe)
}

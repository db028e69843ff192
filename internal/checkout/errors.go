package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSessionClosed        = errors.New("checkout already placed")
	ErrSubmissionInProgress = errors.New("order submission in progress")
	ErrPlaceOrderRequired   = errors.New("review is confirmed by placing the order")
	ErrWrongStep            = errors.New("operation not allowed at current step")
)

// ValidationError blocks one forward transition. The session is unchanged.
type ValidationError struct {
	Step    Step
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

// SubmissionError wraps a failure of the order collaborator. The session stays
// on review with its order id reserved, so retrying the unchanged order reuses
// the same id.
type SubmissionError struct {
	OrderID string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit order %s: %v", e.OrderID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
)

// Session walks one cart from summary to a placed order. It is not safe for
// concurrent use; callers serialize access per session.
type Session struct {
	id   string
	cart *cart.Cart
	fees cart.FeeSchedule

	step    Step
	address Address
	payment Payment

	orderID    string
	submitted  Order
	submitting bool
	receipt    Receipt

	now   func() time.Time
	newID func() string
}

type Option func(*Session)

// WithClock overrides the time source used for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOrderIDs overrides order id generation.
func WithOrderIDs(gen func() string) Option {
	return func(s *Session) { s.newID = gen }
}

// Start opens a session at StepSummary. An empty cart is accepted; it only
// blocks the first Advance.
func Start(id string, c *cart.Cart, fees cart.FeeSchedule, opts ...Option) *Session {
	s := &Session{
		id:    id,
		cart:  c,
		fees:  fees,
		step:  StepSummary,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Step() Step          { return s.step }
func (s *Session) Address() Address    { return s.address }
func (s *Session) Payment() Payment    { return s.payment }
func (s *Session) Submitting() bool    { return s.submitting }
func (s *Session) Cart() *cart.Cart    { return s.cart }
func (s *Session) OrderID() string     { return s.orderID }
func (s *Session) Receipt() Receipt    { return s.receipt }
func (s *Session) Totals() cart.Totals { return s.cart.Totals(s.fees) }

// SetAddress stores the delivery address. It is only accepted on the address
// step; validation happens on Advance.
func (s *Session) SetAddress(a Address) error {
	if err := s.mutable(StepAddress); err != nil {
		return err
	}
	s.address = a
	return nil
}

func (s *Session) SetPayment(p Payment) error {
	if err := s.mutable(StepPayment); err != nil {
		return err
	}
	if p.Card != nil {
		c := *p.Card
		p.Card = &c
	}
	s.payment = p
	return nil
}

// Advance moves one step forward after validating the current step. On error
// the session is unchanged.
func (s *Session) Advance() (Step, error) {
	if err := s.open(); err != nil {
		return s.step, err
	}

	switch s.step {
	case StepSummary:
		if s.cart.IsEmpty() {
			return s.step, ErrEmptyCart
		}
	case StepAddress:
		if missing := s.address.missing(); len(missing) > 0 {
			return s.step, &ValidationError{Step: StepAddress, Missing: missing}
		}
	case StepPayment:
		if missing := s.payment.missing(); len(missing) > 0 {
			return s.step, &ValidationError{Step: StepPayment, Missing: missing}
		}
	case StepReview:
		return s.step, ErrPlaceOrderRequired
	}

	s.step = forward[s.step]
	return s.step, nil
}

// Retreat moves one step back without validating or clearing entered data.
// From StepSummary it reports exited and the caller leaves checkout.
func (s *Session) Retreat() (Step, bool, error) {
	if err := s.open(); err != nil {
		return s.step, false, err
	}
	prev, ok := backward[s.step]
	if !ok {
		return s.step, true, nil
	}
	s.step = prev
	return s.step, false, nil
}

// BeginSubmission freezes the session and returns the order to submit. The
// order id is reserved on the first attempt and reused while the cart, address
// and payment stay as they were submitted; any change reserves a new id. Every
// BeginSubmission must be followed by CompleteSubmission or FailSubmission.
func (s *Session) BeginSubmission() (Order, error) {
	if err := s.open(); err != nil {
		return Order{}, err
	}
	if s.step != StepReview {
		return Order{}, ErrWrongStep
	}
	if s.cart.IsEmpty() {
		return Order{}, ErrEmptyCart
	}
	if missing := s.address.missing(); len(missing) > 0 {
		return Order{}, &ValidationError{Step: StepAddress, Missing: missing}
	}
	if missing := s.payment.missing(); len(missing) > 0 {
		return Order{}, &ValidationError{Step: StepPayment, Missing: missing}
	}

	o := Order{
		SessionID:   s.id,
		Lines:       s.cart.Lines(),
		Totals:      s.Totals(),
		Address:     s.address,
		Payment:     s.payment,
		RequestedAt: s.now(),
	}
	if s.orderID == "" || !s.submitted.sameContents(o) {
		s.orderID = s.newID()
	}
	o.ID = s.orderID
	s.submitted = o
	s.submitting = true

	return o, nil
}

// CompleteSubmission records a successful placement: the cart is emptied and
// the session becomes terminal.
func (s *Session) CompleteSubmission(r Receipt) {
	s.submitting = false
	if r.OrderID == "" {
		r.OrderID = s.orderID
	}
	if r.PlacedAt.IsZero() {
		r.PlacedAt = s.now()
	}
	s.receipt = r
	s.step = StepPlaced
	s.cart.Clear()
}

// FailSubmission unfreezes the session on review with the cart intact.
func (s *Session) FailSubmission(cause error) error {
	s.submitting = false
	return &SubmissionError{OrderID: s.orderID, Err: cause}
}

// PlaceOrder runs a whole submission inline. The submitter is called exactly
// once and never retried.
func (s *Session) PlaceOrder(ctx context.Context, sub Submitter) (Receipt, error) {
	o, err := s.BeginSubmission()
	if err != nil {
		return Receipt{}, err
	}
	r, err := sub.Submit(ctx, o)
	if err != nil {
		return Receipt{}, s.FailSubmission(err)
	}
	s.CompleteSubmission(r)
	return s.receipt, nil
}

func (s *Session) open() error {
	if s.step.Terminal() {
		return ErrSessionClosed
	}
	if s.submitting {
		return ErrSubmissionInProgress
	}
	return nil
}

func (s *Session) mutable(at Step) error {
	if err := s.open(); err != nil {
		return err
	}
	if s.step != at {
		return ErrWrongStep
	}
	return nil
}

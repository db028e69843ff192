package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/pricing"
)

var (
	ErrCartLocked = errors.New("cart is locked while checkout is in progress")
	ErrNoCheckout = errors.New("no checkout in progress")
)

// defaultSummary labels a customized line whose selections render to nothing,
// so it still never merges with a plain line.
const defaultSummary = "Standard"

// Service exposes the cart and checkout operations of every session. Calls for
// one session are serialized; different sessions never block each other.
type Service struct {
	catalog   menu.Catalog
	submitter checkout.Submitter
	store     *Store
	fees      cart.FeeSchedule
	logger    *zap.Logger

	newLineID       func() string
	checkoutOptions []checkout.Option
}

type ServiceOption func(*Service)

func WithLineIDs(gen func() string) ServiceOption {
	return func(s *Service) { s.newLineID = gen }
}

func WithCheckoutOptions(opts ...checkout.Option) ServiceOption {
	return func(s *Service) { s.checkoutOptions = append(s.checkoutOptions, opts...) }
}

func NewService(catalog menu.Catalog, submitter checkout.Submitter, fees cart.FeeSchedule, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		catalog:   catalog,
		submitter: submitter,
		store:     NewStore(),
		fees:      fees,
		logger:    logger,
		newLineID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToCart adds a menu item. Without selections the item is added plain,
// priced with its defaults, and merges with an existing plain line for the same
// item. With selections it behaves like SubmitCustomization.
func (s *Service) AddToCart(ctx context.Context, sessionID, itemID string, quantity int, selections map[string]json.RawMessage) (cart.Line, error) {
	if len(selections) > 0 {
		return s.SubmitCustomization(ctx, sessionID, itemID, selections, quantity)
	}

	item, err := s.catalog.GetMenuItem(ctx, itemID)
	if err != nil {
		return cart.Line{}, fmt.Errorf("get menu item %s: %w", itemID, err)
	}
	if item.RequiresCustomization {
		return cart.Line{}, &pricing.CustomizationRequiredError{ItemID: item.ID}
	}

	quote, err := pricing.Price(item, quantity, pricing.Defaults(item))
	if err != nil {
		return cart.Line{}, err
	}

	return s.addLine(sessionID, cart.Line{
		ID:        item.ID,
		ItemID:    item.ID,
		Name:      quote.ItemName,
		UnitPrice: quote.UnitPrice,
		Quantity:  quote.Quantity,
	})
}

// SubmitCustomization prices a configured item and appends it as a new line.
// Customized lines never merge, even with identical selections.
func (s *Service) SubmitCustomization(ctx context.Context, sessionID, itemID string, selections map[string]json.RawMessage, quantity int) (cart.Line, error) {
	item, err := s.catalog.GetMenuItem(ctx, itemID)
	if err != nil {
		return cart.Line{}, fmt.Errorf("get menu item %s: %w", itemID, err)
	}

	sel, err := pricing.Bind(item, selections)
	if err != nil {
		return cart.Line{}, err
	}
	quote, err := pricing.Price(item, quantity, sel)
	if err != nil {
		return cart.Line{}, err
	}

	summary := quote.Summary
	if summary == "" {
		summary = defaultSummary
	}

	return s.addLine(sessionID, cart.Line{
		ID:        s.newLineID(),
		ItemID:    item.ID,
		Name:      quote.ItemName,
		UnitPrice: quote.UnitPrice,
		Quantity:  quote.Quantity,
		Summary:   summary,
	})
}

func (s *Service) addLine(sessionID string, line cart.Line) (cart.Line, error) {
	e := s.store.acquire(sessionID)
	defer s.store.release(sessionID, e)

	if !e.cartEditable() {
		return cart.Line{}, ErrCartLocked
	}
	stored, err := e.cart.Add(line)
	if err != nil {
		return cart.Line{}, err
	}

	s.logger.Info("cart line added",
		zap.String("session_id", sessionID),
		zap.String("line_id", stored.ID),
		zap.String("item_id", stored.ItemID),
		zap.Int("quantity", stored.Quantity),
		zap.String("unit_price", stored.UnitPrice.StringFixed(2)))

	return stored, nil
}

// SetQuantity replaces a line quantity; below one removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID, lineID string, quantity int) (CartView, error) {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)

	if !e.cartEditable() {
		return CartView{}, ErrCartLocked
	}
	if err := e.cart.UpdateQuantity(lineID, quantity); err != nil {
		return CartView{}, err
	}

	s.logger.Info("cart line quantity set",
		zap.String("session_id", sessionID),
		zap.String("line_id", lineID),
		zap.Int("quantity", quantity))

	return s.cartView(sessionID, e), nil
}

func (s *Service) RemoveLine(ctx context.Context, sessionID, lineID string) (CartView, error) {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)

	if !e.cartEditable() {
		return CartView{}, ErrCartLocked
	}
	e.cart.Remove(lineID)

	s.logger.Info("cart line removed",
		zap.String("session_id", sessionID),
		zap.String("line_id", lineID))

	return s.cartView(sessionID, e), nil
}

func (s *Service) Cart(ctx context.Context, sessionID string) CartView {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)
	return s.cartView(sessionID, e)
}

// StartCheckout opens checkout at the summary step, or returns the checkout
// already in progress.
func (s *Service) StartCheckout(ctx context.Context, sessionID string) (CheckoutView, error) {
	e := s.store.acquire(sessionID)
	defer s.store.release(sessionID, e)

	if e.checkout == nil {
		e.checkout = checkout.Start(sessionID, e.cart, s.fees, s.checkoutOptions...)
		s.logger.Info("checkout started",
			zap.String("session_id", sessionID),
			zap.Int("item_count", e.cart.ItemCount()))
	}
	return s.checkoutView(sessionID, e), nil
}

func (s *Service) Checkout(ctx context.Context, sessionID string) (CheckoutView, error) {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)

	if e.checkout == nil {
		return CheckoutView{}, ErrNoCheckout
	}
	return s.checkoutView(sessionID, e), nil
}

// ExitCheckout abandons checkout from any step. Entered address and payment
// are dropped; the cart is kept.
func (s *Service) ExitCheckout(ctx context.Context, sessionID string) error {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)

	if e.checkout == nil {
		return nil
	}
	if e.checkout.Submitting() {
		return checkout.ErrSubmissionInProgress
	}
	e.checkout = nil
	s.logger.Info("checkout exited", zap.String("session_id", sessionID))
	return nil
}

func (s *Service) SetAddress(ctx context.Context, sessionID string, a checkout.Address) (CheckoutView, error) {
	return s.withCheckout(sessionID, func(co *checkout.Session) error {
		return co.SetAddress(a)
	})
}

func (s *Service) SetPayment(ctx context.Context, sessionID string, p checkout.Payment) (CheckoutView, error) {
	return s.withCheckout(sessionID, func(co *checkout.Session) error {
		return co.SetPayment(p)
	})
}

func (s *Service) Advance(ctx context.Context, sessionID string) (CheckoutView, error) {
	return s.withCheckout(sessionID, func(co *checkout.Session) error {
		from := co.Step()
		to, err := co.Advance()
		if err != nil {
			s.logger.Info("checkout advance rejected",
				zap.String("session_id", sessionID),
				zap.Stringer("step", from),
				zap.Error(err))
			return err
		}
		s.logger.Info("checkout advanced",
			zap.String("session_id", sessionID),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
		return nil
	})
}

// Retreat steps back. Retreating from the summary exits checkout; the returned
// bool reports that and the view is then empty.
func (s *Service) Retreat(ctx context.Context, sessionID string) (CheckoutView, bool, error) {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)

	if e.checkout == nil {
		return CheckoutView{}, false, ErrNoCheckout
	}
	from := e.checkout.Step()
	to, exited, err := e.checkout.Retreat()
	if err != nil {
		return CheckoutView{}, false, err
	}
	if exited {
		e.checkout = nil
		s.logger.Info("checkout exited", zap.String("session_id", sessionID))
		return CheckoutView{}, true, nil
	}

	s.logger.Info("checkout retreated",
		zap.String("session_id", sessionID),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	return s.checkoutView(sessionID, e), false, nil
}

// PlaceOrder submits the reviewed order exactly once. The session lock is not
// held while the submitter runs; the checkout refuses every other transition
// until the outcome is recorded. On success the checkout is discarded and the
// cart is empty; on failure the session stays on review.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string) (checkout.Receipt, error) {
	e := s.store.peek(sessionID)
	if e.checkout == nil {
		s.store.release(sessionID, e)
		return checkout.Receipt{}, ErrNoCheckout
	}
	co := e.checkout
	order, err := co.BeginSubmission()
	e.mu.Unlock()
	if err != nil {
		return checkout.Receipt{}, err
	}

	log := s.logger.With(zap.String("session_id", sessionID), zap.String("order_id", order.ID))
	log.Info("order submission started", zap.String("total", order.Totals.Total.StringFixed(2)))

	receipt, subErr := s.submitter.Submit(ctx, order)

	// the entry holds a checkout, so it cannot have been dropped meanwhile
	e.mu.Lock()
	defer s.store.release(sessionID, e)

	if subErr != nil {
		err := co.FailSubmission(subErr)
		log.Warn("order submission failed", zap.Error(subErr))
		return checkout.Receipt{}, err
	}

	co.CompleteSubmission(receipt)
	receipt = co.Receipt()
	e.checkout = nil
	log.Info("order placed", zap.Time("placed_at", receipt.PlacedAt))
	return receipt, nil
}

func (s *Service) withCheckout(sessionID string, fn func(co *checkout.Session) error) (CheckoutView, error) {
	e := s.store.peek(sessionID)
	defer s.store.release(sessionID, e)

	if e.checkout == nil {
		return CheckoutView{}, ErrNoCheckout
	}
	if err := fn(e.checkout); err != nil {
		return CheckoutView{}, err
	}
	return s.checkoutView(sessionID, e), nil
}

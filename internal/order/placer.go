package order

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
)

// ErrIDConflict means an order id was resubmitted with different contents.
var ErrIDConflict = errors.New("order id already used for a different order")

// EventsPublisher announces placed orders to downstream services.
type EventsPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
}

// Placer is the order collaborator behind checkout: it persists the order,
// then publishes OrderPlaced. Retries of the same order are idempotent.
type Placer struct {
	repo      Repository
	publisher EventsPublisher
	logger    *zap.Logger
}

func NewPlacer(repo Repository, publisher EventsPublisher, logger *zap.Logger) *Placer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Placer{repo: repo, publisher: publisher, logger: logger}
}

func (p *Placer) Submit(ctx context.Context, co checkout.Order) (checkout.Receipt, error) {
	o := FromCheckout(co)

	err := p.repo.Create(ctx, o)
	switch {
	case errors.Is(err, ErrDuplicate):
		// an earlier attempt stored the order but did not get its event out
		existing, getErr := p.repo.GetByID(ctx, co.ID)
		if getErr != nil {
			return checkout.Receipt{}, fmt.Errorf("load existing order: %w", getErr)
		}
		if !existing.sameContents(o) {
			p.logger.Error("order id reused with different contents", zap.String("order_id", co.ID))
			return checkout.Receipt{}, fmt.Errorf("%w: %s", ErrIDConflict, co.ID)
		}
		p.logger.Info("order already stored, republishing", zap.String("order_id", co.ID))
		o = existing
	case err != nil:
		return checkout.Receipt{}, fmt.Errorf("store order: %w", err)
	}

	if p.publisher != nil {
		if err := p.publisher.PublishOrderPlaced(ctx, o); err != nil {
			return checkout.Receipt{}, fmt.Errorf("publish order placed: %w", err)
		}
	}

	p.logger.Info("order confirmed",
		zap.String("order_id", o.ID),
		zap.String("session_id", o.SessionID),
		zap.String("total", o.Total.StringFixed(2)))

	return checkout.Receipt{OrderID: o.ID, PlacedAt: o.CreatedAt}, nil
}

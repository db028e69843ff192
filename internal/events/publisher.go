package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

const defaultPublishTimeout = 3 * time.Second

type channel interface {
	exchangeDeclarer
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type PublisherOptions struct {
	Producer string
	Timeout  time.Duration
}

// Publisher emits enveloped OrderPlaced events on the events exchange.
type Publisher struct {
	ch       channel
	seqRepo  SequenceRepository
	producer string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewPublisher(conn *amqp.Connection, seqRepo SequenceRepository, opts PublisherOptions, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newPublisher(ch, seqRepo, opts, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch channel, seqRepo SequenceRepository, opts PublisherOptions, logger *zap.Logger) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	if opts.Producer == "" {
		opts.Producer = contracts.CheckoutServiceProducer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultPublishTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Publisher{
		ch:       ch,
		seqRepo:  seqRepo,
		producer: opts.Producer,
		timeout:  opts.Timeout,
		logger:   logger,
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishOrderPlaced emits one OrderPlaced event. The session's sequence only
// advances when the broker accepts the message.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	partitionKey := o.SessionID

	var env contracts.EventEnvelope
	err := p.seqRepo.WithNextSequence(ctx, partitionKey, func(seq int64) error {
		env = contracts.BuildOrderPlacedEvent(o, contracts.EnvelopeOptions{
			PartitionKey:  partitionKey,
			Sequence:      seq,
			Producer:      p.producer,
			CorrelationID: middleware.GetCorrelationID(ctx),
			CausationID:   o.ID,
		})

		body, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal OrderPlaced: %w", err)
		}
		if err := p.publishJSON(ctx, OrderPlacedRoutingKey, env.EventID, body); err != nil {
			return fmt.Errorf("publish %s: %w", OrderPlacedRoutingKey, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Info("event published",
		zap.String("event", contracts.OrderPlacedEventName),
		zap.String("event_id", env.EventID),
		zap.String("order_id", o.ID),
		zap.Int64("sequence", env.Sequence))
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: middleware.GetCorrelationID(ctx),
			Timestamp:     time.Now().UTC(),
			Body:          body,
		},
	)
}

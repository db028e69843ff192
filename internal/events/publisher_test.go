package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/contracts"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
}

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []published
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	_, hasDeadline := ctx.Deadline()
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg, deadline: hasDeadline})
	return f.publishErr
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

// fakeSequences keeps a number only when emit succeeds.
type fakeSequences struct {
	last int64
	err  error
}

func (f *fakeSequences) WithNextSequence(ctx context.Context, partitionKey string, emit func(seq int64) error) error {
	if f.err != nil {
		return f.err
	}
	if err := emit(f.last + 1); err != nil {
		return err
	}
	f.last++
	return nil
}

func testOrder() *order.Order {
	return &order.Order{
		ID:          "order-1",
		SessionID:   "sess-1",
		Status:      order.StatusConfirmed,
		Subtotal:    decimal.RequireFromString("8"),
		DeliveryFee: decimal.RequireFromString("5"),
		Tax:         decimal.RequireFromString("0.8"),
		Total:       decimal.RequireFromString("13.8"),
		CreatedAt:   time.Date(2026, time.March, 3, 18, 30, 0, 0, time.UTC),
	}
}

func TestNewPublisherDeclaresExchange(t *testing.T) {
	ch := &fakeChannel{}
	_, err := newPublisher(ch, &fakeSequences{}, PublisherOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"food.events:topic"}, ch.declared)

	_, err = newPublisher(&fakeChannel{declareErr: errors.New("denied")}, &fakeSequences{}, PublisherOptions{}, nil)
	require.Error(t, err)
}

func TestPublishOrderPlaced(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, &fakeSequences{}, PublisherOptions{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := middleware.WithCorrelationID(context.Background(), "cid-1")
	require.NoError(t, p.PublishOrderPlaced(ctx, testOrder()))
	require.NoError(t, p.PublishOrderPlaced(ctx, testOrder()))

	require.Len(t, ch.published, 2)
	first := ch.published[0]
	assert.Equal(t, EventsExchange, first.exchange)
	assert.Equal(t, OrderPlacedRoutingKey, first.key)
	assert.True(t, first.deadline)
	assert.Equal(t, "application/json", first.msg.ContentType)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)
	assert.Equal(t, "cid-1", first.msg.CorrelationId)

	var env contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(first.msg.Body, &env))
	assert.Equal(t, first.msg.MessageId, env.EventID)
	assert.Equal(t, contracts.OrderPlacedEventName, env.EventName)
	assert.Equal(t, "sess-1", env.PartitionKey)
	assert.Equal(t, "cid-1", env.CorrelationID)
	assert.Equal(t, "order-1", env.CausationID)
	assert.Equal(t, "13.80", env.Payload.Total)
	assert.EqualValues(t, 1, env.Sequence)

	var second contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(ch.published[1].msg.Body, &second))
	assert.EqualValues(t, 2, second.Sequence)
	assert.NotEqual(t, env.EventID, second.EventID)
}

func TestPublishOrderPlaced_Errors(t *testing.T) {
	p, err := newPublisher(&fakeChannel{}, &fakeSequences{err: errors.New("db down")}, PublisherOptions{}, nil)
	require.NoError(t, err)
	require.Error(t, p.PublishOrderPlaced(context.Background(), testOrder()))

	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err = newPublisher(ch, &fakeSequences{}, PublisherOptions{Timeout: time.Second}, nil)
	require.NoError(t, err)
	require.Error(t, p.PublishOrderPlaced(context.Background(), testOrder()))
	assert.Len(t, ch.published, 1)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublishOrderPlaced_FailedPublishKeepsSequence(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newPublisher(ch, &fakeSequences{}, PublisherOptions{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.Error(t, p.PublishOrderPlaced(context.Background(), testOrder()))
	ch.publishErr = nil
	require.NoError(t, p.PublishOrderPlaced(context.Background(), testOrder()))

	require.Len(t, ch.published, 2)
	var env contracts.EventEnvelope
	require.NoError(t, json.Unmarshal(ch.published[1].msg.Body, &env))
	assert.EqualValues(t, 1, env.Sequence)
}

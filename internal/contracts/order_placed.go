package contracts

import (
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

const (
	OrderPlacedEventName           = "OrderPlaced"
	OrderPlacedEventVersion        = 1
	OrderPlacedEnvelopedSchemaPath = "contracts/events/checkout/OrderPlaced.v1.enveloped.schema.json"
	CheckoutServiceProducer        = "checkout-service"
)

type EventEnvelope struct {
	EventName     string             `json:"eventName"`
	EventVersion  int                `json:"eventVersion"`
	EventID       string             `json:"eventId"`
	CorrelationID string             `json:"correlationId,omitempty"`
	CausationID   string             `json:"causationId,omitempty"`
	Producer      string             `json:"producer"`
	PartitionKey  string             `json:"partitionKey"`
	Sequence      int64              `json:"sequence"`
	OccurredAt    time.Time          `json:"occurredAt"`
	Schema        string             `json:"schema"`
	Payload       OrderPlacedPayload `json:"payload"`
}

// Amounts are decimal strings with two fixed places.
type OrderPlacedPayload struct {
	OrderID       string             `json:"orderId"`
	SessionID     string             `json:"sessionId"`
	Lines         []OrderPlacedLine  `json:"lines"`
	Subtotal      string             `json:"subtotal"`
	DeliveryFee   string             `json:"deliveryFee"`
	Tax           string             `json:"tax"`
	Total         string             `json:"total"`
	DeliverTo     OrderPlacedAddress `json:"deliverTo"`
	PaymentMethod string             `json:"paymentMethod"`
	PlacedAt      time.Time          `json:"placedAt"`
}

type OrderPlacedLine struct {
	LineID         string `json:"lineId"`
	ItemID         string `json:"itemId"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unitPrice"`
	Customizations string `json:"customizations,omitempty"`
}

type OrderPlacedAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

func BuildOrderPlacedEvent(o *order.Order, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = OrderPlacedEnvelopedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = CheckoutServiceProducer
	}

	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = o.SessionID
	}

	payload := OrderPlacedPayload{
		OrderID:     o.ID,
		SessionID:   o.SessionID,
		Subtotal:    o.Subtotal.StringFixed(2),
		DeliveryFee: o.DeliveryFee.StringFixed(2),
		Tax:         o.Tax.StringFixed(2),
		Total:       o.Total.StringFixed(2),
		DeliverTo: OrderPlacedAddress{
			Street:     o.Address.Street,
			City:       o.Address.City,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		},
		PaymentMethod: string(o.PaymentMethod),
		PlacedAt:      o.CreatedAt,
	}

	for _, l := range o.Lines {
		payload.Lines = append(payload.Lines, OrderPlacedLine{
			LineID:         l.LineID,
			ItemID:         l.ItemID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice.StringFixed(2),
			Customizations: l.Customizations,
		})
	}

	return EventEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload:       payload,
	}
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/contracts"
)

const publishTimeout = 3 * time.Second

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends CartCheckedOut envelopes to the events exchange.
type RabbitPublisher struct {
	ch     channel
	seq    Sequencer
	logger zerolog.Logger
	now    func() time.Time
}

func NewRabbitPublisher(conn *amqp.Connection, seq Sequencer, logger zerolog.Logger) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}
	return newRabbitPublisher(ch, seq, logger), nil
}

func newRabbitPublisher(ch channel, seq Sequencer, logger zerolog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		ch:     ch,
		seq:    seq,
		logger: logger.With().Str("component", "publisher").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (p *RabbitPublisher) PublishCartCheckedOut(ctx context.Context, c *cart.Cart, meta cart.CheckoutMeta) error {
	seq, err := p.seq.NextSequence(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	env := contracts.BuildCartCheckedOutEvent(c, contracts.EnvelopeOptions{
		PartitionKey:  c.ID,
		Sequence:      seq,
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		OccurredAt:    p.now(),
	})

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.EventName, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		CartCheckedOutRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     env.EventID,
			CorrelationId: env.CorrelationID,
			Type:          env.EventName,
			Timestamp:     env.OccurredAt,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", CartCheckedOutRoutingKey, err)
	}

	p.logger.Info().
		Str("event_id", env.EventID).
		Int64("sequence", seq).
		Str("routing_key", CartCheckedOutRoutingKey).
		Msg("event published")
	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// NopPublisher is used when no broker is configured. It logs the envelope it would have sent.
type NopPublisher struct {
	logger zerolog.Logger
}

func NewNopPublisher(logger zerolog.Logger) *NopPublisher {
	return &NopPublisher{logger: logger.With().Str("component", "publisher").Logger()}
}

func (p *NopPublisher) PublishCartCheckedOut(_ context.Context, c *cart.Cart, meta cart.CheckoutMeta) error {
	p.logger.Info().
		Str("cart_id", c.ID).
		Str("correlation_id", meta.CorrelationID).
		Int("item_count", c.ItemCount).
		Msg("event publishing disabled, skipping CartCheckedOut")
	return nil
}

func (p *NopPublisher) Close() error { return nil }

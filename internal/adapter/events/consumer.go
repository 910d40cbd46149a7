package events

import (
	"context"
	"encoding/json"
	"time"

	"welfare-wallet-engine/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Inbound billing channels. The billing collaborator publishes deposit
// lifecycle signals here; the consumer drives the deposit engine from them.
const (
	ChannelDepositReady  = "billing.deposit.ready"
	ChannelBillPaid      = "billing.bill.paid"
	ChannelDepositFailed = "billing.deposit.failed"
)

// billingEvent is the wire envelope on every billing channel.
type billingEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	CorrelationID string    `json:"correlation_id"`
	TrackingCode  string    `json:"tracking_code"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Consumer subscribes to the billing channels and dispatches each event to
// the deposit engine. Handlers are idempotent, so redelivery and duplicate
// publishes are safe; a handler error is logged and the loop moves on.
type Consumer struct {
	client   *goredis.Client
	deposits ports.DepositEngine
	log      zerolog.Logger
}

// NewConsumer creates a billing event consumer.
func NewConsumer(client *goredis.Client, deposits ports.DepositEngine, log zerolog.Logger) *Consumer {
	return &Consumer{client: client, deposits: deposits, log: log}
}

// Run subscribes and processes events until ctx is cancelled. It blocks, so
// callers run it on its own goroutine.
func (c *Consumer) Run(ctx context.Context) error {
	sub := c.client.Subscribe(ctx, ChannelDepositReady, ChannelBillPaid, ChannelDepositFailed)
	defer sub.Close() //nolint:errcheck

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	c.log.Info().
		Strs("channels", []string{ChannelDepositReady, ChannelBillPaid, ChannelDepositFailed}).
		Msg("billing event consumer started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("billing event consumer stopped")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg *goredis.Message) {
	var event billingEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		c.log.Error().Err(err).Str("channel", msg.Channel).Msg("malformed billing event, dropping")
		return
	}
	if event.TrackingCode == "" {
		c.log.Error().Str("channel", msg.Channel).Msg("billing event without tracking code, dropping")
		return
	}

	log := c.log.With().
		Str("channel", msg.Channel).
		Str("tracking_code", event.TrackingCode).
		Str("correlation_id", event.CorrelationID).
		Logger()

	var err error
	switch msg.Channel {
	case ChannelDepositReady:
		_, err = c.deposits.HandleDepositReady(ctx, event.TrackingCode)
	case ChannelBillPaid:
		_, err = c.deposits.HandleBillPaid(ctx, event.TrackingCode)
	case ChannelDepositFailed:
		_, err = c.deposits.HandleDepositFailed(ctx, event.TrackingCode)
	default:
		log.Warn().Msg("unexpected channel, dropping")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("billing event handling failed")
		return
	}
	log.Info().Msg("billing event handled")
}

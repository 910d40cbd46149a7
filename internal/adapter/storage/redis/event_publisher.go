package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Outbound notification channels. Downstream consumers (notification service,
// reporting) subscribe to these; delivery is best effort and happens only
// after the owning database transaction has committed.
const (
	ChannelBalanceChanged       = "balance.changed"
	ChannelTransactionCompleted = "transaction.completed"
	ChannelDepositCompleted     = "deposit.completed"
)

// EventPublisher implements ports.EventPublisher over Redis pub/sub.
type EventPublisher struct {
	client *goredis.Client
}

// NewEventPublisher creates a Redis-backed event publisher.
func NewEventPublisher(client *goredis.Client) *EventPublisher {
	return &EventPublisher{client: client}
}

type eventEnvelope struct {
	EventID    uuid.UUID `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type balanceChangedPayload struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Balance  int64     `json:"balance"`
}

// BalanceChanged notifies subscribers of a wallet's new derived balance.
func (p *EventPublisher) BalanceChanged(ctx context.Context, walletID uuid.UUID, balance domain.Money) error {
	return p.publish(ctx, ChannelBalanceChanged, balanceChangedPayload{
		WalletID: walletID,
		Balance:  balance.Int64(),
	})
}

// TransactionCompleted notifies subscribers of a committed ledger entry.
func (p *EventPublisher) TransactionCompleted(ctx context.Context, txn *domain.Transaction) error {
	return p.publish(ctx, ChannelTransactionCompleted, txn)
}

// DepositCompleted notifies subscribers of a settled deposit.
func (p *EventPublisher) DepositCompleted(ctx context.Context, deposit *domain.Deposit) error {
	return p.publish(ctx, ChannelDepositCompleted, deposit)
}

func (p *EventPublisher) publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(eventEnvelope{
		EventID:    uuid.New(),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", channel, err)
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", channel, err)
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"welfare-wallet-engine/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveOne(t *testing.T, sub *goredis.PubSub) *goredis.Message {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
		return nil
	}
}

func TestEventPublisher_BalanceChanged(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	pub := NewEventPublisher(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, ChannelBalanceChanged)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	walletID := uuid.New()
	err = pub.BalanceChanged(ctx, walletID, 125_000)
	require.NoError(t, err)

	msg := receiveOne(t, sub)
	var envelope struct {
		EventID    uuid.UUID `json:"event_id"`
		OccurredAt time.Time `json:"occurred_at"`
		Payload    struct {
			WalletID uuid.UUID `json:"wallet_id"`
			Balance  int64     `json:"balance"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
	assert.NotEqual(t, uuid.Nil, envelope.EventID)
	assert.Equal(t, walletID, envelope.Payload.WalletID)
	assert.Equal(t, int64(125_000), envelope.Payload.Balance)
}

func TestEventPublisher_TransactionCompleted(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	pub := NewEventPublisher(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, ChannelTransactionCompleted)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	txn := &domain.Transaction{
		ID:          uuid.New(),
		WalletID:    uuid.New(),
		Type:        domain.TransactionTypePayment,
		Amount:      50_000,
		ReferenceID: "PAY-1",
		CreatedAt:   time.Now().UTC(),
	}
	err = pub.TransactionCompleted(ctx, txn)
	require.NoError(t, err)

	msg := receiveOne(t, sub)
	var envelope struct {
		Payload domain.Transaction `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
	assert.Equal(t, txn.ID, envelope.Payload.ID)
	assert.Equal(t, domain.TransactionTypePayment, envelope.Payload.Type)
}

func TestEventPublisher_DepositCompleted(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	pub := NewEventPublisher(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, ChannelDepositCompleted)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	dep, err := domain.NewDeposit(uuid.New(), 75_000, "TRK-77")
	require.NoError(t, err)
	require.NoError(t, dep.MarkPending())
	require.NoError(t, dep.Complete())

	err = pub.DepositCompleted(ctx, dep)
	require.NoError(t, err)

	msg := receiveOne(t, sub)
	var envelope struct {
		Payload domain.Deposit `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
	assert.Equal(t, dep.ID, envelope.Payload.ID)
	assert.Equal(t, domain.DepositStatusCompleted, envelope.Payload.Status)
	assert.Equal(t, "TRK-77", envelope.Payload.TrackingCode)
}

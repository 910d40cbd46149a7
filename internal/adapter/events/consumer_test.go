package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineCall struct {
	op           string
	trackingCode string
}

// fakeDepositEngine records calls on a channel so the test can wait for the
// consumer goroutine without polling.
type fakeDepositEngine struct {
	calls chan engineCall
}

func newFakeDepositEngine() *fakeDepositEngine {
	return &fakeDepositEngine{calls: make(chan engineCall, 8)}
}

func (f *fakeDepositEngine) RequestDeposit(_ context.Context, req ports.DepositRequest) (*domain.Deposit, error) {
	f.calls <- engineCall{"request", req.TrackingCode}
	return nil, nil
}

func (f *fakeDepositEngine) HandleDepositReady(_ context.Context, trackingCode string) (*domain.Deposit, error) {
	f.calls <- engineCall{"ready", trackingCode}
	return nil, nil
}

func (f *fakeDepositEngine) HandleBillPaid(_ context.Context, trackingCode string) (*domain.Deposit, error) {
	f.calls <- engineCall{"paid", trackingCode}
	return nil, nil
}

func (f *fakeDepositEngine) HandleDepositFailed(_ context.Context, trackingCode string) (*domain.Deposit, error) {
	f.calls <- engineCall{"failed", trackingCode}
	return nil, nil
}

func (f *fakeDepositEngine) waitForCall(t *testing.T) engineCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deposit engine call")
		return engineCall{}
	}
}

func publishBillingEvent(t *testing.T, client *goredis.Client, channel, trackingCode string) {
	t.Helper()
	data, err := json.Marshal(billingEvent{
		EventID:       uuid.New(),
		CorrelationID: uuid.NewString(),
		TrackingCode:  trackingCode,
		OccurredAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, client.Publish(context.Background(), channel, data).Err())
}

func startConsumer(t *testing.T) (*goredis.Client, *fakeDepositEngine, context.CancelFunc) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	engine := newFakeDepositEngine()
	consumer := NewConsumer(client, engine, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	go func() {
		close(started)
		_ = consumer.Run(ctx)
	}()
	<-started
	// give the subscription a moment to register before publishing
	time.Sleep(50 * time.Millisecond)
	return client, engine, cancel
}

func TestConsumer_DispatchesDepositReady(t *testing.T) {
	client, engine, cancel := startConsumer(t)
	defer cancel()

	publishBillingEvent(t, client, ChannelDepositReady, "TRK-1")

	call := engine.waitForCall(t)
	assert.Equal(t, "ready", call.op)
	assert.Equal(t, "TRK-1", call.trackingCode)
}

func TestConsumer_DispatchesBillPaid(t *testing.T) {
	client, engine, cancel := startConsumer(t)
	defer cancel()

	publishBillingEvent(t, client, ChannelBillPaid, "TRK-2")

	call := engine.waitForCall(t)
	assert.Equal(t, "paid", call.op)
	assert.Equal(t, "TRK-2", call.trackingCode)
}

func TestConsumer_DispatchesDepositFailed(t *testing.T) {
	client, engine, cancel := startConsumer(t)
	defer cancel()

	publishBillingEvent(t, client, ChannelDepositFailed, "TRK-3")

	call := engine.waitForCall(t)
	assert.Equal(t, "failed", call.op)
	assert.Equal(t, "TRK-3", call.trackingCode)
}

func TestConsumer_DropsMalformedAndContinues(t *testing.T) {
	client, engine, cancel := startConsumer(t)
	defer cancel()

	require.NoError(t, client.Publish(context.Background(), ChannelBillPaid, "not-json").Err())
	// missing tracking code
	require.NoError(t, client.Publish(context.Background(), ChannelBillPaid, `{"event_id":"`+uuid.NewString()+`"}`).Err())
	publishBillingEvent(t, client, ChannelBillPaid, "TRK-4")

	call := engine.waitForCall(t)
	assert.Equal(t, "paid", call.op)
	assert.Equal(t, "TRK-4", call.trackingCode)
	assert.Empty(t, engine.calls)
}

func TestConsumer_StopsOnCancel(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	consumer := NewConsumer(client, newFakeDepositEngine(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

package events

import (
	"context"
	"encoding/json"

	"welfare-wallet-engine/internal/core/domain"
	"welfare-wallet-engine/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Operation command channels. Upstream services (benefit disbursement, the
// resident portal backend) enqueue wallet operations here; results surface on
// the outbound notification channels after commit.
const (
	ChannelTransferRequested = "ops.transfer.requested"
	ChannelPaymentRequested  = "ops.payment.requested"
	ChannelRefundRequested   = "ops.refund.requested"
	ChannelDepositRequested  = "ops.deposit.requested"
)

type transferCommand struct {
	CorrelationID       string    `json:"correlation_id"`
	SourceWalletID      uuid.UUID `json:"source_wallet_id"`
	DestinationWalletID uuid.UUID `json:"destination_wallet_id"`
	Amount              int64     `json:"amount"`
	ReferenceID         string    `json:"reference_id"`
	Description         string    `json:"description"`
	IncludePending      bool      `json:"include_pending"`
}

type paymentCommand struct {
	CorrelationID string    `json:"correlation_id"`
	WalletID      uuid.UUID `json:"wallet_id"`
	BillID        uuid.UUID `json:"bill_id"`
	Amount        int64     `json:"amount"`
	ReferenceID   string    `json:"reference_id"`
	Description   string    `json:"description"`
}

type refundCommand struct {
	CorrelationID string    `json:"correlation_id"`
	WalletID      uuid.UUID `json:"wallet_id"`
	BillID        uuid.UUID `json:"bill_id"`
	Amount        int64     `json:"amount"`
	Reason        string    `json:"reason"`
	ReferenceID   string    `json:"reference_id"`
}

type depositCommand struct {
	CorrelationID string    `json:"correlation_id"`
	WalletID      uuid.UUID `json:"wallet_id"`
	Amount        int64     `json:"amount"`
	TrackingCode  string    `json:"tracking_code"`
}

// CommandConsumer subscribes to the operation channels and drives the wallet
// engines. Rejections (policy errors, duplicates) are expected traffic and are
// logged at warn; the loop never stops on a failed command.
type CommandConsumer struct {
	client    *goredis.Client
	transfers ports.TransferEngine
	payments  ports.PaymentEngine
	refunds   ports.RefundEngine
	deposits  ports.DepositEngine
	log       zerolog.Logger
}

// NewCommandConsumer creates an operation command consumer.
func NewCommandConsumer(
	client *goredis.Client,
	transfers ports.TransferEngine,
	payments ports.PaymentEngine,
	refunds ports.RefundEngine,
	deposits ports.DepositEngine,
	log zerolog.Logger,
) *CommandConsumer {
	return &CommandConsumer{
		client:    client,
		transfers: transfers,
		payments:  payments,
		refunds:   refunds,
		deposits:  deposits,
		log:       log,
	}
}

// Run subscribes and processes commands until ctx is cancelled.
func (c *CommandConsumer) Run(ctx context.Context) error {
	channels := []string{
		ChannelTransferRequested, ChannelPaymentRequested,
		ChannelRefundRequested, ChannelDepositRequested,
	}
	sub := c.client.Subscribe(ctx, channels...)
	defer sub.Close() //nolint:errcheck

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	c.log.Info().Strs("channels", channels).Msg("command consumer started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("command consumer stopped")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *CommandConsumer) handle(ctx context.Context, msg *goredis.Message) {
	var (
		correlationID string
		err           error
	)
	switch msg.Channel {
	case ChannelTransferRequested:
		var cmd transferCommand
		if err = json.Unmarshal([]byte(msg.Payload), &cmd); err == nil {
			correlationID = cmd.CorrelationID
			_, err = c.transfers.Transfer(ctx, ports.TransferRequest{
				SourceWalletID:      cmd.SourceWalletID,
				DestinationWalletID: cmd.DestinationWalletID,
				Amount:              domain.Money(cmd.Amount),
				ReferenceID:         cmd.ReferenceID,
				Description:         cmd.Description,
				IncludePending:      cmd.IncludePending,
			})
		}
	case ChannelPaymentRequested:
		var cmd paymentCommand
		if err = json.Unmarshal([]byte(msg.Payload), &cmd); err == nil {
			correlationID = cmd.CorrelationID
			_, err = c.payments.PayBill(ctx, ports.BillPaymentRequest{
				WalletID:    cmd.WalletID,
				BillID:      cmd.BillID,
				Amount:      domain.Money(cmd.Amount),
				ReferenceID: cmd.ReferenceID,
				Description: cmd.Description,
			})
		}
	case ChannelRefundRequested:
		var cmd refundCommand
		if err = json.Unmarshal([]byte(msg.Payload), &cmd); err == nil {
			correlationID = cmd.CorrelationID
			_, err = c.refunds.Refund(ctx, ports.RefundRequest{
				WalletID:    cmd.WalletID,
				BillID:      cmd.BillID,
				Amount:      domain.Money(cmd.Amount),
				Reason:      cmd.Reason,
				ReferenceID: cmd.ReferenceID,
			})
		}
	case ChannelDepositRequested:
		var cmd depositCommand
		if err = json.Unmarshal([]byte(msg.Payload), &cmd); err == nil {
			correlationID = cmd.CorrelationID
			_, err = c.deposits.RequestDeposit(ctx, ports.DepositRequest{
				WalletID:     cmd.WalletID,
				Amount:       domain.Money(cmd.Amount),
				TrackingCode: cmd.TrackingCode,
			})
		}
	default:
		c.log.Warn().Str("channel", msg.Channel).Msg("unexpected channel, dropping")
		return
	}

	log := c.log.With().
		Str("channel", msg.Channel).
		Str("correlation_id", correlationID).
		Logger()
	if err != nil {
		log.Warn().Err(err).Msg("command rejected")
		return
	}
	log.Info().Msg("command handled")
}

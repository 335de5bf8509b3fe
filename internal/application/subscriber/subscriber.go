package subscriber

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrSubscriptionLost means the bus stopped delivering. The service cannot
// continue without it and does not reconnect.
var ErrSubscriptionLost = errors.New("subscription lost")

// Delivery is one inbound payload plus its transport bookkeeping.
type Delivery struct {
	Payload []byte
	// Fields identify the message in logs (topic/partition/offset, delivery tag).
	Fields []zap.Field
	// Ack marks the message consumed. Nil when the transport has nothing to ack.
	Ack func(ctx context.Context) error
}

// Subscription is a single long-lived subscription to one channel.
// Receive blocks until the next payload arrives.
type Subscription interface {
	Receive(ctx context.Context) (Delivery, error)
}

type MessageHandler interface {
	Handle(ctx context.Context, payload []byte) Result
}

// Run consumes the subscription one message at a time, in arrival order,
// until ctx is cancelled (nil) or the subscription fails (ErrSubscriptionLost).
func Run(ctx context.Context, sub Subscription, h MessageHandler, logger *zap.Logger) error {
	logger.Info("subscriber started")
	for {
		d, err := sub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("subscriber stopped", zap.Error(ctx.Err()))
				return nil
			}
			return fmt.Errorf("%w: %v", ErrSubscriptionLost, err)
		}

		res := h.Handle(ctx, d.Payload)
		logger.Debug("message processed",
			append(d.Fields,
				zap.String("stage", string(res.Stage)),
				zap.String("order_uid", res.UID),
			)...,
		)

		if d.Ack == nil {
			continue
		}
		if err := d.Ack(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("ack failed", append(d.Fields, zap.Error(err))...)
		}
	}
}

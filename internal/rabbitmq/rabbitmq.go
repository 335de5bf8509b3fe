package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/application/subscriber"
)

var errDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// Subscription consumes a fanout exchange named after the channel through
// an exclusive, auto-deleted queue, so every subscriber sees every order.
// There is no reconnect: a closed delivery channel ends the subscription.
type Subscription struct {
	deliveries <-chan amqp.Delivery
	closers    []io.Closer
}

func Subscribe(url, channel string, logger *zap.Logger) (*Subscription, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	deliveries, err := bind(ch, channel)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("Subscribed to RabbitMQ exchange", zap.String("exchange", channel))
	return newSubscription(deliveries, ch, conn), nil
}

func bind(ch *amqp.Channel, exchange string) (<-chan amqp.Delivery, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	// One unacked message at a time keeps processing strictly serial.
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}
	return deliveries, nil
}

func newSubscription(deliveries <-chan amqp.Delivery, closers ...io.Closer) *Subscription {
	return &Subscription{deliveries: deliveries, closers: closers}
}

func (s *Subscription) Receive(ctx context.Context) (subscriber.Delivery, error) {
	select {
	case <-ctx.Done():
		return subscriber.Delivery{}, ctx.Err()
	case d, ok := <-s.deliveries:
		if !ok {
			return subscriber.Delivery{}, errDeliveriesClosed
		}
		return subscriber.Delivery{
			Payload: d.Body,
			Fields: []zap.Field{
				zap.String("exchange", d.Exchange),
				zap.Uint64("delivery_tag", d.DeliveryTag),
			},
			Ack: func(context.Context) error {
				return d.Ack(false)
			},
		}, nil
	}
}

func (s *Subscription) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package kafka

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/application/subscriber"
)

//go:generate mockgen -source internal/kafka/consumer.go -destination=internal/kafka/consumer_mock_test.go -package=kafka

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Subscription reads the channel topic one message at a time. Offsets are
// committed only when the reader belongs to a consumer group.
type Subscription struct {
	reader Reader
	commit bool
	logger *zap.Logger
}

func NewReader(brokers []string, topic, group string) *kafkago.Reader {
	cfg := kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  group,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	}
	if group == "" {
		// Without a group there is nothing to resume from: behave like a
		// pub/sub channel and only see what is published from now on.
		cfg.StartOffset = kafkago.LastOffset
	}
	return kafkago.NewReader(cfg)
}

func NewSubscription(reader Reader, logger *zap.Logger) *Subscription {
	rc := reader.Config()
	logger.Info("Subscribing to Kafka topic",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
	)
	return &Subscription{
		reader: reader,
		commit: rc.GroupID != "",
		logger: logger,
	}
}

// Receive blocks until the next message. Any fetch error other than
// cancellation is returned as is; the caller treats it as fatal.
func (s *Subscription) Receive(ctx context.Context) (subscriber.Delivery, error) {
	msg, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return subscriber.Delivery{}, err
	}

	d := subscriber.Delivery{
		Payload: msg.Value,
		Fields: []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		},
	}
	if s.commit {
		d.Ack = func(ctx context.Context) error {
			return s.reader.CommitMessages(ctx, msg)
		}
	}
	return d, nil
}

func (s *Subscription) Close() error {
	return s.reader.Close()
}

package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	dialTimeout       = 10 * time.Second
	topicReadyTimeout = 10 * time.Second
	topicPollInterval = 500 * time.Millisecond
)

// EnsureTopic creates the channel topic when it is missing and waits until
// its partitions are visible. An existing topic is left untouched.
func EnsureTopic(ctx context.Context, brokers []string, topic string, numPartitions int, log *zap.Logger) error {
	if err := checkTopicArgs(brokers, topic, numPartitions); err != nil {
		return err
	}

	dialer := &kafkago.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	if parts, err := conn.ReadPartitions(topic); err == nil && len(parts) > 0 {
		reportExisting(log, topic, len(parts))
		return nil
	}

	tc := kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: 1,
	}
	if err := createTopic(ctx, dialer, conn, tc, log); err != nil {
		return err
	}
	return waitForPartitions(ctx, conn, topic, numPartitions, log)
}

func checkTopicArgs(brokers []string, topic string, numPartitions int) error {
	switch {
	case len(brokers) == 0:
		return errors.New("no kafka brokers configured")
	case strings.TrimSpace(topic) == "":
		return errors.New("empty topic")
	case numPartitions < 1:
		return fmt.Errorf("topic %s: partitions must be positive, got %d", topic, numPartitions)
	}
	return nil
}

// createTopic goes through the cluster controller; other brokers reject
// CreateTopics.
func createTopic(ctx context.Context, dialer *kafkago.Dialer, conn *kafkago.Conn, tc kafkago.TopicConfig, log *zap.Logger) error {
	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find controller: %w", err)
	}
	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))

	ctrl, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", addr, err)
	}
	defer ctrl.Close()

	log.Info("Creating kafka topic",
		zap.String("topic", tc.Topic),
		zap.Int("partitions", tc.NumPartitions),
	)
	if err := ctrl.CreateTopics(tc); err != nil && !errors.Is(err, kafkago.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", tc.Topic, err)
	}
	return nil
}

// Arrival order only holds within a partition.
func reportExisting(log *zap.Logger, topic string, partitions int) {
	if partitions > 1 {
		log.Warn("Kafka topic has several partitions, orders are applied in per-partition order only",
			zap.String("topic", topic),
			zap.Int("partitions", partitions),
		)
		return
	}
	log.Info("Kafka topic exists", zap.String("topic", topic))
}

type partitionReader interface {
	ReadPartitions(topics ...string) ([]kafkago.Partition, error)
}

func waitForPartitions(ctx context.Context, conn partitionReader, topic string, numPartitions int, log *zap.Logger) error {
	deadline := time.NewTimer(topicReadyTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(topicPollInterval)
	defer poll.Stop()

	for {
		parts, err := conn.ReadPartitions(topic)
		if err == nil && len(parts) >= numPartitions {
			log.Info("Kafka topic is ready", zap.String("topic", topic), zap.Int("partitions", len(parts)))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("topic %s: %d partition(s) not visible after %s", topic, numPartitions, topicReadyTimeout)
		case <-poll.C:
		}
	}
}

// Package events publishes order lifecycle events for downstream auditing.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type OrderStatusChanged struct {
	OrderID   string    `json:"orderId"`
	Account   string    `json:"account"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	PublishOrderStatus(ctx context.Context, event OrderStatusChanged) error
	Close() error
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Timeout = 5 * time.Second
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// PublishOrderStatus keys messages by order id so all transitions of one
// order land on the same partition in order.
func (p *KafkaPublisher) PublishOrderStatus(ctx context.Context, event OrderStatusChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("sending order event: %w", err)
	}
	p.logger.Debug("order event published",
		zap.String("orderId", event.OrderID),
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishOrderStatus(_ context.Context, event OrderStatusChanged) error {
	p.logger.Info("order status changed",
		zap.String("orderId", event.OrderID),
		zap.String("account", event.Account),
		zap.String("oldStatus", event.OldStatus),
		zap.String("newStatus", event.NewStatus),
		zap.String("actor", event.Actor),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// New picks the Kafka publisher when brokers are set.
func New(brokers []string, topic string, logger *zap.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return NewLogPublisher(logger), nil
	}
	return NewKafkaPublisher(brokers, topic, logger)
}

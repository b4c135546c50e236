package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleEvent() OrderStatusChanged {
	return OrderStatusChanged{
		OrderID:   "ORD001",
		Account:   "zhangsan",
		OldStatus: "unpaid",
		NewStatus: "unused",
		Actor:     "admin",
		At:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_SendsKeyedJSON(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "ORD001" {
			return errors.New("unexpected key " + string(key))
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got OrderStatusChanged
		if err := json.Unmarshal(value, &got); err != nil {
			return err
		}
		if got.NewStatus != "unused" {
			return errors.New("unexpected status " + got.NewStatus)
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, "orders", zap.NewNop())
	require.NoError(t, pub.PublishOrderStatus(context.Background(), sampleEvent()))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "orders", zap.NewNop())
	err := pub.PublishOrderStatus(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestLogPublisher_LogsEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pub := NewLogPublisher(zap.New(core))

	require.NoError(t, pub.PublishOrderStatus(context.Background(), sampleEvent()))
	entries := logs.FilterMessage("order status changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ORD001", entries[0].ContextMap()["orderId"])
}

func TestNew_WithoutBrokersLogs(t *testing.T) {
	pub, err := New(nil, "orders", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, pub)
}

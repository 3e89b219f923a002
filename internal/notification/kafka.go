package notification

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes events as JSON messages keyed by account number, so all
// events of one account land on the same partition in order.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier wraps a configured kafka writer.
func NewKafkaNotifier(writer *kafka.Writer) *KafkaNotifier {
	return &KafkaNotifier{writer: writer}
}

// Send publishes the event.
func (n *KafkaNotifier) Send(ctx context.Context, event Event) error {
	event = stamp(event)
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AccountNumber, 10)),
		Value: data,
	})
}

// Close flushes pending messages and releases the writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

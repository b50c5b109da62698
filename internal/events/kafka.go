package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events as JSON messages keyed by subject id.
type KafkaPublisher struct {
	w *kgo.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kgo.Writer{
		Addr:         kgo.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kgo.Hash{},
		RequiredAcks: kgo.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := encode(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

func encode(e Event) (kgo.Message, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return kgo.Message{}, fmt.Errorf("encode event %s: %w", e.Type, err)
	}
	return kgo.Message{
		Key:   []byte(e.SubjectID),
		Value: b,
		Time:  e.At,
		Headers: []kgo.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}

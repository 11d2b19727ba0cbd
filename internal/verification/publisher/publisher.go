// Package publisher emits verification outcome events for downstream
// consumers.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"citeguard/internal/verification/models"
)

// KafkaPublisher produces JSON outcome events keyed by verification id, so
// every event for a verification lands on the same partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher connects a producer to brokers.
func NewKafkaPublisher(brokers []string, topic string, opts ...kgo.Opt) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic is required")
	}

	client, err := kgo.NewClient(append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// EnsureTopic creates the outcome topic when it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, resp.Err)
	}
	return nil
}

// Publish produces ev synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, ev models.OutcomeEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode outcome event: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(ev.VerificationID.String()),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce outcome event: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// LogPublisher writes outcome events to the log. It is used when Kafka is
// not configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev models.OutcomeEvent) error {
	p.logger.InfoContext(ctx, "verification outcome",
		"verification_id", ev.VerificationID,
		"domain", ev.Domain,
		"verdict", ev.Verdict,
		"request_id", ev.RequestID,
	)
	return nil
}

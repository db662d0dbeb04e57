// Package publisher provides audit event publishers. The Kafka publisher is
// the production sink; the log publisher serves development and tests.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "onboard/pkg/platform/audit"
	"onboard/pkg/platform/circuit"
)

// kafkaPayload is the JSON structure produced to the audit topic.
type kafkaPayload struct {
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	OnboardingID  string `json:"onboarding_id,omitempty"`
	Action        string `json:"action"`
	Source        string `json:"source,omitempty"`
	Decision      string `json:"decision,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	Actor         string `json:"actor,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
	DeviceSummary string `json:"device_summary,omitempty"`
}

// Kafka publishes audit events to a Kafka topic keyed by onboarding ID so
// one onboarding's events stay ordered within a partition. Broker outages
// trip a circuit breaker; while open, events fall back to the structured
// log instead of stalling the caller.
type Kafka struct {
	client  *kgo.Client
	topic   string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// KafkaOption configures the Kafka publisher.
type KafkaOption func(*Kafka)

// WithLogger sets the fallback logger used when the breaker is open.
func WithLogger(logger *slog.Logger) KafkaOption {
	return func(p *Kafka) { p.logger = logger }
}

// WithBreaker overrides the default circuit breaker.
func WithBreaker(b *circuit.Breaker) KafkaOption {
	return func(p *Kafka) { p.breaker = b }
}

// NewKafka creates a Kafka audit publisher.
func NewKafka(brokers []string, topic string, opts ...KafkaOption) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(10*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &Kafka{
		client:  client,
		topic:   topic,
		breaker: circuit.New("audit-kafka", circuit.WithFailureThreshold(5)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Emit produces the event to the audit topic. Emission is fire-and-forget:
// produce errors are recorded on the breaker and logged, never returned to
// the business operation that triggered the event.
func (p *Kafka) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.breaker.IsOpen() {
		p.logFallback(ctx, event, "circuit open")
		return nil
	}

	payload := kafkaPayload{
		Category:      string(audit.AuditEvent(event.Action).Category()),
		Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
		Action:        event.Action,
		Source:        event.Source,
		Decision:      event.Decision,
		Reason:        event.Reason,
		RequestID:     event.RequestID,
		Actor:         event.Actor,
		ClientIP:      event.ClientIP,
		DeviceSummary: event.DeviceSummary,
	}
	if !event.OnboardingID.IsNil() {
		payload.OnboardingID = event.OnboardingID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(payload.OnboardingID),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			_, change := p.breaker.RecordFailure()
			if p.logger != nil {
				p.logger.ErrorContext(ctx, "audit produce failed",
					"action", event.Action,
					"error", err,
					"breaker_opened", change.Opened,
				)
			}
			p.logFallback(ctx, event, "produce failed")
			return
		}
		p.breaker.RecordSuccess()
	})
	return nil
}

// Close flushes pending records and releases the client.
func (p *Kafka) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		p.client.Close()
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	p.client.Close()
	return nil
}

func (p *Kafka) logFallback(ctx context.Context, event audit.Event, reason string) {
	if p.logger == nil {
		return
	}
	p.logger.WarnContext(ctx, "audit event diverted to log",
		"fallback_reason", reason,
		"action", event.Action,
		"onboarding_id", event.OnboardingID,
		"decision", event.Decision,
		"request_id", event.RequestID,
	)
}

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seatmap/internal/shared/config"
	"seatmap/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Publisher streams audit records for seat inventory changes. Publishing is
// best effort: a broker outage never fails the operation being audited.
type Publisher interface {
	SeatAssignmentCommitted(ctx context.Context, eventID uuid.UUID, cartID string, seatGUIDs []string)
	SeatingPlanChanged(ctx context.Context, eventID uuid.UUID, planID *uuid.UUID, seatCount int)
	BulkAssignmentApplied(ctx context.Context, eventID uuid.UUID, assigned int)
	Close() error
}

// Record is the wire format of one audit entry.
type Record struct {
	Type       string                 `json:"type"`
	EventID    string                 `json:"event_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

const (
	recordTypeAssignment     = "seat.assignment.committed"
	recordTypePlanChanged    = "event.seating_plan.changed"
	recordTypeBulkAssignment = "order.seats.bulk_assigned"
)

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewPublisher builds a Kafka-backed publisher, or a no-op one when the
// audit stream is disabled in configuration.
func NewPublisher(cfg *config.Config, log *logger.Logger) (Publisher, error) {
	if !cfg.Kafka.Enabled {
		return NopPublisher{}, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	// Records of one event land on one partition, preserving their order.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit producer: %w", err)
	}
	return &kafkaPublisher{producer: producer, topic: cfg.Kafka.Topic, log: log}, nil
}

func (p *kafkaPublisher) SeatAssignmentCommitted(ctx context.Context, eventID uuid.UUID, cartID string, seatGUIDs []string) {
	p.publish(ctx, Record{
		Type:       recordTypeAssignment,
		EventID:    eventID.String(),
		OccurredAt: time.Now().UTC(),
		Details: map[string]interface{}{
			"cart_id":    cartID,
			"seat_guids": seatGUIDs,
		},
	})
}

func (p *kafkaPublisher) SeatingPlanChanged(ctx context.Context, eventID uuid.UUID, planID *uuid.UUID, seatCount int) {
	details := map[string]interface{}{"seat_count": seatCount}
	if planID != nil {
		details["plan_id"] = planID.String()
	}
	p.publish(ctx, Record{
		Type:       recordTypePlanChanged,
		EventID:    eventID.String(),
		OccurredAt: time.Now().UTC(),
		Details:    details,
	})
}

func (p *kafkaPublisher) BulkAssignmentApplied(ctx context.Context, eventID uuid.UUID, assigned int) {
	p.publish(ctx, Record{
		Type:       recordTypeBulkAssignment,
		EventID:    eventID.String(),
		OccurredAt: time.Now().UTC(),
		Details:    map[string]interface{}{"assigned": assigned},
	})
}

func (p *kafkaPublisher) publish(ctx context.Context, record Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		p.log.ErrorWithContext(ctx, "failed to marshal audit record", err, nil)
		return
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(record.EventID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.log.ErrorWithContext(ctx, "failed to publish audit record", err, map[string]interface{}{
			"type":     record.Type,
			"event_id": record.EventID,
		})
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops all records. Used when the audit stream is disabled.
type NopPublisher struct{}

func (NopPublisher) SeatAssignmentCommitted(context.Context, uuid.UUID, string, []string) {}
func (NopPublisher) SeatingPlanChanged(context.Context, uuid.UUID, *uuid.UUID, int)       {}
func (NopPublisher) BulkAssignmentApplied(context.Context, uuid.UUID, int)                {}
func (NopPublisher) Close() error                                                         { return nil }

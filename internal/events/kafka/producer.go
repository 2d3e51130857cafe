// Package kafka publishes notification jobs as CloudEvents v1.0 to a Kafka
// topic consumed by the notification service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/events"
)

// CloudEvent is the CloudEvents v1.0 envelope.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

const (
	cloudEventSpecVersion     = "1.0"
	cloudEventDataContentType = "application/json"
)

// Producer publishes notification jobs to a single Kafka topic. Jobs are
// keyed by their stable JobKey so redeliveries of the same issuance land on
// the same partition and collapse downstream.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	topic    string
	source   string
}

// NewProducer creates a synchronous idempotent Kafka producer.
// source identifies this service in CloudEvents, e.g. "/identity-service".
func NewProducer(brokers []string, topic, source string, logger *zap.Logger) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1 // Required by the idempotent producer.

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		logger:   logger,
		topic:    topic,
		source:   source,
	}, nil
}

// Dispatch wraps the job in a CloudEvent and sends it. The job payload holds
// the secret being delivered, so only the job key and type are logged.
func (p *Producer) Dispatch(_ context.Context, job models.NotificationJob) error {
	event := CloudEvent{
		SpecVersion:     cloudEventSpecVersion,
		Type:            string(job.Type),
		Source:          p.source,
		Subject:         job.JobKey,
		ID:              uuid.NewString(),
		Time:            time.Now().UTC(),
		DataContentType: cloudEventDataContentType,
		Data:            job,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(job.JobKey),
		Value: sarama.ByteEncoder(eventJSON),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("failed to publish notification event",
			zap.String("job_key", job.JobKey),
			zap.String("type", string(job.Type)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.logger.Info("notification event published",
		zap.String("job_key", job.JobKey),
		zap.String("type", string(job.Type)),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the underlying producer.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

var _ events.NotificationDispatcher = (*Producer)(nil)

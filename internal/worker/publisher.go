package worker

import (
	"context"
	"encoding/json"

	"docpipe/internal/models"
	"docpipe/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ResultPublisher is responsible for publishing processing outcomes to Kafka.
type ResultPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// NewResultPublisher creates a new ResultPublisher over an existing writer.
func NewResultPublisher(writer *kafka.Writer, logger *logger.Logger) *ResultPublisher {
	return &ResultPublisher{writer: writer, logger: logger}
}

// Publish sends an outcome message keyed by request id to the result topic.
func (p *ResultPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	msgBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to marshal result for Kafka")
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: msgBytes,
	})
	if err != nil {
		p.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
			"topic": p.writer.Topic,
		}).Error("Failed to write result message to Kafka")
		return err
	}
	return nil
}

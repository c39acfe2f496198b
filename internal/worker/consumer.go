package worker

import (
	"context"

	"docpipe/internal/models"
	"docpipe/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// RequestConsumer is responsible for consuming analysis requests from Kafka.
type RequestConsumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewRequestConsumer creates a new RequestConsumer over an existing reader.
func NewRequestConsumer(reader *kafka.Reader, logger *logger.Logger) *RequestConsumer {
	return &RequestConsumer{reader: reader, logger: logger}
}

// Start begins consuming messages from the request topic. It blocks until the
// context is cancelled, so callers usually run it from main.
func (c *RequestConsumer) Start(ctx context.Context, handler func(context.Context, kafka.Message) error) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping analysis request consumer...")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Error fetching message from Kafka")
				}
				continue
			}

			if err := handler(ctx, msg); err != nil {
				c.logger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
					"topic":     msg.Topic,
					"partition": msg.Partition,
					"offset":    msg.Offset,
				}).Error("Error handling analysis request")
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to commit Kafka message")
			}
		}
	}
}

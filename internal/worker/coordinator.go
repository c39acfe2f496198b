package worker

import (
	"context"
	"encoding/json"

	"docpipe/internal/models"
	"docpipe/internal/pipeline"
	"docpipe/internal/store"
	"docpipe/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Coordinator orchestrates the worker loop: decode a request, run it through
// the pipeline, persist the completed record, and publish the outcome.
type Coordinator struct {
	service     *pipeline.Service
	recordStore store.RecordStore
	publisher   *ResultPublisher
	logger      *logger.Logger
}

// Outcome is the message published to the result topic for each request.
type Outcome struct {
	RequestID string `json:"request_id"`
	RecordID  string `json:"record_id,omitempty"`
	JobID     string `json:"job_id,omitempty"`
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(service *pipeline.Service, recordStore store.RecordStore, publisher *ResultPublisher, logger *logger.Logger) *Coordinator {
	return &Coordinator{
		service:     service,
		recordStore: recordStore,
		publisher:   publisher,
		logger:      logger,
	}
}

// ProcessRequest is the handler for each Kafka message.
func (c *Coordinator) ProcessRequest(ctx context.Context, msg kafka.Message) error {
	var req models.AnalysisRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		c.logger.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to unmarshal analysis request from Kafka")
		return err
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	reqLogger := logger.New("IDPCoordinator", req.RequestID)
	reqLogger.Info("Starting to process analysis request")

	record, err := c.service.Process(ctx, &req)
	if err != nil {
		kind := string(pipeline.KindOf(err))
		reqLogger.WithError(models.ErrorInfo{Message: err.Error(), Kind: kind}).Error("Request processing failed")
		// No partial record is persisted for a failed request.
		return c.publisher.Publish(ctx, req.RequestID, Outcome{
			RequestID: req.RequestID,
			Status:    string(models.RecordStatusFailed),
			ErrorKind: kind,
			Error:     err.Error(),
		})
	}

	record.ID = uuid.NewString()
	if err := c.recordStore.Insert(ctx, record); err != nil {
		reqLogger.WithError(models.ErrorInfo{Message: err.Error()}).WithPayload(map[string]interface{}{
			"job_id": record.JobID,
		}).Error("Failed to persist document record")
		return err
	}

	reqLogger.WithPayload(map[string]interface{}{
		"record_id": record.ID,
		"job_id":    record.JobID,
	}).Info("Request processed and record persisted")

	return c.publisher.Publish(ctx, req.RequestID, Outcome{
		RequestID: req.RequestID,
		RecordID:  record.ID,
		JobID:     record.JobID,
		Status:    string(models.RecordStatusSuccess),
	})
}

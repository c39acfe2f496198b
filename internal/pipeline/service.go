package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docpipe/internal/analysis"
	"docpipe/internal/config"
	"docpipe/internal/insight"
	"docpipe/internal/models"
	"docpipe/internal/provider"
	"docpipe/pkg/logger"
)

// Service runs one document through the full pipeline: submit the analysis
// job, poll it to completion, filter and resolve the returned blocks, then
// enrich the extracted text pools. Every request is independent; the service
// holds no per-request state.
type Service struct {
	analysisProvider provider.AnalysisProvider
	resolver         *analysis.Resolver
	enricher         *insight.Enricher

	confidenceThreshold float64
	pollInterval        time.Duration
	maxPollAttempts     int

	log *logger.Logger
}

// NewService wires the pipeline from its providers and configuration.
func NewService(ap provider.AnalysisProvider, ip provider.InsightProvider, cfg *config.AppConfig, log *logger.Logger) *Service {
	if log == nil {
		log = logger.New("pipeline", "")
	}
	return &Service{
		analysisProvider:    ap,
		resolver:            analysis.NewResolver(log),
		enricher:            insight.NewEnricher(ip, cfg.Insight, log),
		confidenceThreshold: cfg.Analysis.ConfidenceThreshold,
		pollInterval:        cfg.Analysis.PollIntervalDuration(),
		maxPollAttempts:     cfg.Analysis.MaxPollAttempts,
		log:                 log,
	}
}

// Process handles a single analysis request end to end. On success the
// returned record carries the resolved structures and the enrichment; on
// failure the error is a PipelineError with a structured kind. Cancellation
// abandons in-flight work and never yields a partial record.
func (s *Service) Process(ctx context.Context, req *models.AnalysisRequest) (*models.DocumentRecord, error) {
	if req == nil || req.RequestID == "" {
		return nil, newError(KindValidation, nil, "missing request id")
	}
	if req.Location.Bucket == "" || req.Location.Key == "" {
		return nil, newError(KindValidation, nil, "missing document location for request %s", req.RequestID)
	}

	log := logger.New("pipeline", req.RequestID)
	submittedAt := time.Now().UTC()

	jobID, err := s.analysisProvider.StartAnalysis(ctx, req.Location)
	if err != nil {
		return nil, s.classify(ctx, newError(KindUpstreamFailure, err, "failed to start analysis job"))
	}
	log.WithPayload(map[string]interface{}{"job_id": jobID}).Info("Analysis job submitted")

	blocks, err := s.awaitAnalysis(ctx, jobID, log)
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	filtered := analysis.FilterByConfidence(blocks, s.confidenceThreshold)
	log.WithPayload(map[string]interface{}{
		"total_blocks": len(blocks),
		"kept_blocks":  len(filtered),
	}).Info("Confidence filter applied")

	doc := s.resolver.Resolve(filtered)
	log.WithPayload(map[string]interface{}{
		"lines":       len(doc.Lines),
		"tables":      len(doc.Tables),
		"form_fields": len(doc.Fields),
	}).Info("Document structures resolved")

	enrichment, err := s.enricher.Enrich(ctx, doc)
	if err != nil {
		return nil, s.classify(ctx, newError(KindInsight, err, "enrichment failed"))
	}

	return &models.DocumentRecord{
		RequestID:   req.RequestID,
		JobID:       jobID,
		Status:      models.RecordStatusSuccess,
		Lines:       doc.Lines,
		Tables:      doc.Tables,
		FormFields:  doc.Fields,
		Enrichment:  enrichment,
		SubmittedAt: submittedAt,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// awaitAnalysis polls the job at a fixed interval until it reaches a terminal
// state or the attempt budget is exhausted.
func (s *Service) awaitAnalysis(ctx context.Context, jobID string, log *logger.Logger) ([]models.Block, error) {
	for attempt := 1; attempt <= s.maxPollAttempts; attempt++ {
		result, err := s.analysisProvider.GetAnalysis(ctx, jobID)
		if err != nil {
			return nil, newError(KindUpstreamFailure, err, "failed to poll analysis job %s", jobID)
		}

		switch result.Status {
		case models.JobStatusSucceeded:
			return result.Blocks, nil
		case models.JobStatusFailed:
			return nil, newError(KindUpstreamFailure, nil, "analysis job %s failed: %s", jobID, result.FailureReason)
		}

		log.WithPayload(map[string]interface{}{
			"job_id":  jobID,
			"attempt": fmt.Sprintf("%d/%d", attempt, s.maxPollAttempts),
		}).Debug("Analysis job still pending")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
	return nil, newError(KindUpstreamTimeout, nil, "analysis job %s did not finish within %d attempts", jobID, s.maxPollAttempts)
}

// classify folds context cancellation into the error taxonomy so that every
// escaping failure carries a kind.
func (s *Service) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindCancelled, err, "request abandoned")
	}
	return err
}

package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"adspilot/internal/domain"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"
)

// FeedbackService runs the feedback pipeline: parse an upload-results file,
// build a deduplicated submission batch, and hand it to the backend.
type FeedbackService struct {
	backend domain.BackendClient
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewFeedbackService(backend domain.BackendClient, logger *logger.Logger, metrics *metrics.Metrics) *FeedbackService {
	return &FeedbackService{
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

// ParseFile parses one results file into a report without submitting anything.
func (s *FeedbackService) ParseFile(ctx context.Context, filename string, r io.Reader) (*domain.ParseReport, error) {
	start := time.Now()
	log := s.logger.WithContext(ctx)

	report, err := ParseResultsFile(filename, r)
	if err != nil {
		s.metrics.RecordParseJob("failed", time.Since(start))
		return nil, err
	}

	s.metrics.RecordParseJob("success", time.Since(start))
	s.metrics.RecordRowsClassified("error", report.ErrorRows)
	s.metrics.RecordRowsClassified("success", report.SuccessRows)
	for _, e := range report.Errors {
		s.metrics.RecordErrorsExtracted(string(e.Kind), 1)
	}

	log.WithFields(map[string]any{
		"filename":     filename,
		"total_rows":   report.TotalRows,
		"error_rows":   report.ErrorRows,
		"success_rows": report.SuccessRows,
		"keywords":     len(report.Keywords),
		"headlines":    len(report.Headlines),
		"descriptions": len(report.Descriptions),
	}).Info("Results file parsed")

	return report, nil
}

// SubmitFile parses a results file and submits its rejected entities to the
// backend deny-list. The submission is one batch: on backend failure no item
// is marked sent.
func (s *FeedbackService) SubmitFile(ctx context.Context, filename string, r io.Reader, farmer string, action domain.SubmissionAction) (*domain.ParseReport, []domain.SubmissionItem, error) {
	report, err := s.ParseFile(ctx, filename, r)
	if err != nil {
		return nil, nil, err
	}

	items := BuildSubmissionBatch(report, action)
	if len(items) == 0 {
		s.logger.WithContext(ctx).WithField("filename", filename).Info("No submittable errors found")
		return report, items, nil
	}

	if err := s.backend.SubmitAdErrors(ctx, farmer, items); err != nil {
		return nil, nil, fmt.Errorf("failed to submit error batch: %w", err)
	}

	s.metrics.RecordSubmissionItems(string(action), len(items))
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"filename": filename,
		"farmer":   farmer,
		"items":    len(items),
		"action":   action,
	}).Info("Error batch submitted")

	return report, items, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/payslip_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
)

const (
	recordSuccessMessage = "Salary slip processed and sent successfully"
	nothingToRetry       = "No failed records to retry"
	retryCompleted       = "Retry processing completed"
)

// batchProcessor implements the BatchProcessorSvcFacade interface
type batchProcessor struct {
	BaseService
	recordRepo portsrepo.SalaryRecordRepositoryFacade
	renderer   portssvc.DocumentRenderer
	delivery   portssvc.DeliveryChannel
	locker     portssvc.BatchLocker
	now        func() time.Time
}

// BatchProcessorOption is a functional option for configuring the batch processor
type BatchProcessorOption func(*batchProcessor)

// WithBatchLocker guards every run with a per-batch lock.
func WithBatchLocker(locker portssvc.BatchLocker) BatchProcessorOption {
	return func(s *batchProcessor) {
		s.locker = locker
	}
}

// WithClock overrides the time source used for processed_at timestamps.
func WithClock(now func() time.Time) BatchProcessorOption {
	return func(s *batchProcessor) {
		s.now = now
	}
}

// NewBatchProcessorService creates the batch processor with the provided options
func NewBatchProcessorService(
	recordRepo portsrepo.SalaryRecordRepositoryFacade,
	renderer portssvc.DocumentRenderer,
	delivery portssvc.DeliveryChannel,
	options ...BatchProcessorOption,
) portssvc.BatchProcessorSvcFacade {
	svc := &batchProcessor{
		recordRepo: recordRepo,
		renderer:   renderer,
		delivery:   delivery,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// ProcessBatch walks every record of the batch in load order. A nil error means the batch was
// fully walked, even when some records failed.
func (s *batchProcessor) ProcessBatch(ctx context.Context, batchID string) (result *domain.BatchResult, err error) {
	// A started batch runs to the end regardless of the caller going away.
	ctx = context.WithoutCancel(ctx)

	release, err := s.acquire(ctx, batchID)
	if err != nil {
		return nil, err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("%v", r)
			s.LogError(ctx, cause, "Batch processing aborted", slog.String("batch_id", batchID))
			s.bestEffortBatchStatus(ctx, batchID, domain.BatchStatusUpdate{Status: domain.BatchFailed, Details: cause.Error()})
			result = nil
			err = fmt.Errorf("%w: error processing batch: %w", apperrors.ErrBatchFatal, cause)
		}
	}()

	records, err := s.recordRepo.FindRecordsByBatch(ctx, batchID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load batch records", slog.String("batch_id", batchID))
		s.bestEffortBatchStatus(ctx, batchID, domain.BatchStatusUpdate{Status: domain.BatchFailed, Details: err.Error()})
		return nil, fmt.Errorf("%w: error processing batch: %w", apperrors.ErrBatchFatal, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records found for batch %s", apperrors.ErrNotFound, batchID)
	}

	s.LogInfo(ctx, "Batch processing started", slog.String("batch_id", batchID), slog.Int("records", len(records)))

	result = &domain.BatchResult{Total: len(records), Errors: []domain.RecordError{}}
	processing := domain.RecordProcessing
	s.bestEffortBatchStatus(ctx, batchID, domain.BatchStatusUpdate{
		Status:       domain.BatchProcessing,
		Details:      *result,
		RecordStatus: &processing,
	})

	for _, record := range records {
		if _, err := s.ProcessSingleRecord(ctx, record); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, domain.RecordError{
				EmployeeID: record.EmployeeID,
				Name:       record.Name,
				Error:      err.Error(),
			})
			continue
		}
		result.Successful++
	}

	status := domain.BatchCompleted
	if result.Failed > 0 {
		status = domain.BatchPartiallyCompleted
	}
	s.bestEffortBatchStatus(ctx, batchID, domain.BatchStatusUpdate{Status: status, Details: *result})

	s.LogInfo(ctx, "Batch processing finished",
		slog.String("batch_id", batchID),
		slog.String("status", status.String()),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed))

	return result, nil
}

// ProcessSingleRecord renders then delivers one record. Every outcome is persisted on the record;
// failures come back as *apperrors.RecordFailure.
func (s *batchProcessor) ProcessSingleRecord(ctx context.Context, record domain.SalaryRecord) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			detail := fmt.Sprint(r)
			s.bestEffortRecordStatus(ctx, record, domain.RecordProcessingFailed, detail)
			msg = ""
			err = &apperrors.RecordFailure{Kind: apperrors.ErrUnexpected, Err: fmt.Errorf("error processing record: %s", detail)}
		}
	}()

	doc, err := s.renderer.Render(ctx, record)
	if err != nil {
		s.bestEffortRecordStatus(ctx, record, domain.RecordPDFFailed, err.Error())
		return "", &apperrors.RecordFailure{Kind: apperrors.ErrRenderFailed, Err: err}
	}
	if doc == nil || doc.Path == "" {
		detail := "renderer returned no document"
		s.bestEffortRecordStatus(ctx, record, domain.RecordProcessingFailed, detail)
		return "", &apperrors.RecordFailure{Kind: apperrors.ErrUnexpected, Err: fmt.Errorf("error processing record: %s", detail)}
	}

	detail, err := s.delivery.Deliver(ctx, record, *doc)
	if err != nil {
		s.bestEffortRecordStatus(ctx, record, domain.RecordEmailFailed, err.Error())
		return "", &apperrors.RecordFailure{Kind: apperrors.ErrDeliveryFailed, Err: err}
	}

	s.bestEffortRecordStatus(ctx, record, domain.RecordCompleted, recordSuccessMessage)
	s.LogDebug(ctx, "Salary slip delivered",
		slog.String("record_id", record.RecordID),
		slog.String("employee_id", record.EmployeeID),
		slog.String("detail", detail))
	return recordSuccessMessage, nil
}

// RetryFailed re-processes the records left in a retryable state. The batch-level status is
// left untouched.
func (s *batchProcessor) RetryFailed(ctx context.Context, batchID string) (*domain.RetryResult, error) {
	ctx = context.WithoutCancel(ctx)

	release, err := s.acquire(ctx, batchID)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := s.recordRepo.FindRecordsByStatuses(ctx, batchID, domain.RetryableStatuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to load failed records", slog.String("batch_id", batchID))
		return nil, fmt.Errorf("error during retry: %w", err)
	}
	if len(records) == 0 {
		return &domain.RetryResult{
			NothingToRetry: true,
			Message:        nothingToRetry,
			Errors:         []domain.RecordError{},
		}, nil
	}

	result := &domain.RetryResult{
		TotalRetried: len(records),
		Message:      retryCompleted,
		Errors:       []domain.RecordError{},
	}
	for _, record := range records {
		if _, err := s.ProcessSingleRecord(ctx, record); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, domain.RecordError{
				EmployeeID: record.EmployeeID,
				Name:       record.Name,
				Error:      err.Error(),
			})
			continue
		}
		result.Successful++
	}

	s.LogInfo(ctx, "Batch retry finished",
		slog.String("batch_id", batchID),
		slog.Int("retried", result.TotalRetried),
		slog.Int("failed", result.Failed))

	return result, nil
}

// GetBatchProgress counts the batch's records by status.
func (s *batchProcessor) GetBatchProgress(ctx context.Context, batchID string) (*domain.BatchProgress, error) {
	records, err := s.recordRepo.FindRecordsByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch %s: %w", batchID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: batch %s not found", apperrors.ErrNotFound, batchID)
	}

	progress := &domain.BatchProgress{
		BatchID:      batchID,
		BatchStatus:  records[0].BatchStatus,
		TotalRecords: len(records),
		StatusCounts: make(map[domain.RecordStatus]int),
		Errors:       []domain.RecordIssue{},
	}
	for _, r := range records {
		progress.StatusCounts[r.Status]++
		if r.Status != domain.RecordCompleted && r.StatusMessage != "" {
			progress.Errors = append(progress.Errors, domain.RecordIssue{
				EmployeeID: r.EmployeeID,
				Name:       r.Name,
				Status:     r.Status,
				Message:    r.StatusMessage,
			})
		}
	}
	completed := float64(progress.StatusCounts[domain.RecordCompleted])
	progress.CompletionPercentage = math.Round(completed/float64(len(records))*10000) / 100

	return progress, nil
}

func (s *batchProcessor) acquire(ctx context.Context, batchID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, batchID)
	if err != nil {
		s.LogWarn(ctx, "Batch lock not acquired", slog.String("batch_id", batchID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("batch %s is already being processed: %w", batchID, err)
	}
	return release, nil
}

// bestEffortRecordStatus persists a record outcome. Store failures are logged and dropped.
func (s *batchProcessor) bestEffortRecordStatus(ctx context.Context, record domain.SalaryRecord, status domain.RecordStatus, message string) {
	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("%v", r), "Record status write panicked", slog.String("record_id", record.RecordID))
		}
	}()
	err := s.recordRepo.UpdateRecordStatus(ctx, record.RecordID, domain.RecordStatusUpdate{
		Status:      status,
		Message:     message,
		ProcessedAt: s.now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to persist record status",
			slog.String("record_id", record.RecordID),
			slog.String("status", status.String()))
	}
}

// bestEffortBatchStatus writes the batch label onto every member. Store failures are logged and dropped.
func (s *batchProcessor) bestEffortBatchStatus(ctx context.Context, batchID string, update domain.BatchStatusUpdate) {
	defer func() {
		if r := recover(); r != nil {
			s.LogError(ctx, fmt.Errorf("%v", r), "Batch status write panicked", slog.String("batch_id", batchID))
		}
	}()
	update.UpdatedAt = s.now()
	if err := s.recordRepo.UpdateBatchStatus(ctx, batchID, update); err != nil {
		s.LogError(ctx, err, "Failed to persist batch status",
			slog.String("batch_id", batchID),
			slog.String("status", update.Status.String()))
	}
}

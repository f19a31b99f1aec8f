package services

import (
	"context"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
)

// BatchRunnerSvc drives the records of a batch through rendering and delivery.
type BatchRunnerSvc interface {
	// ProcessBatch renders and delivers every record of a batch and writes the batch outcome.
	ProcessBatch(ctx context.Context, batchID string) (*domain.BatchResult, error)

	// ProcessSingleRecord renders and delivers one record and persists its outcome.
	ProcessSingleRecord(ctx context.Context, record domain.SalaryRecord) (string, error)

	// RetryFailed re-processes only the records of a batch left in a failed state.
	RetryFailed(ctx context.Context, batchID string) (*domain.RetryResult, error)
}

// BatchProgressSvc reports the current state of a batch.
type BatchProgressSvc interface {
	GetBatchProgress(ctx context.Context, batchID string) (*domain.BatchProgress, error)
}

// BatchProcessorSvcFacade combines all batch processing service interfaces
type BatchProcessorSvcFacade interface {
	BatchRunnerSvc
	BatchProgressSvc
}

// DocumentRenderer turns one salary record into a document on disk.
type DocumentRenderer interface {
	Render(ctx context.Context, record domain.SalaryRecord) (*domain.RenderedDocument, error)
}

// DeliveryChannel sends a rendered document to the record's recipient.
// The returned detail is a human readable confirmation.
type DeliveryChannel interface {
	Deliver(ctx context.Context, record domain.SalaryRecord, doc domain.RenderedDocument) (string, error)
}

// BatchLocker grants exclusive access to a batch for the duration of a run.
// Acquire fails with apperrors.ErrConflict when the batch is already held.
type BatchLocker interface {
	Acquire(ctx context.Context, batchID string) (release func(), err error)
}

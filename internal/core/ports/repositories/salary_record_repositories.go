package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
)

// SalaryRecordFilter narrows a salary record listing.
type SalaryRecordFilter struct {
	BatchID string
	Month   string
	Year    int
	Limit   int
	// After is a keyset cursor: records strictly after (UploadedAt, RecordID).
	After *RecordCursor
}

// RecordCursor is the decoded position of a listing page boundary.
type RecordCursor struct {
	UploadedAt time.Time
	RecordID   string
}

// SalaryRecordReader defines read operations for salary records
type SalaryRecordReader interface {
	// FindRecordsByBatch returns every record of a batch in load order.
	FindRecordsByBatch(ctx context.Context, batchID string) ([]domain.SalaryRecord, error)

	// FindRecordsByStatuses returns records of a batch whose status is in statuses, in load order.
	FindRecordsByStatuses(ctx context.Context, batchID string, statuses []domain.RecordStatus) ([]domain.SalaryRecord, error)

	// ListRecords returns records matching the filter ordered by upload time.
	ListRecords(ctx context.Context, filter SalaryRecordFilter) ([]domain.SalaryRecord, error)

	// ListBatchSummaries groups the records uploaded by a user into batch summaries.
	ListBatchSummaries(ctx context.Context, uploadedBy string) ([]domain.BatchSummary, error)
}

// SalaryRecordWriter defines write operations for salary records
type SalaryRecordWriter interface {
	// SaveRecords inserts a freshly ingested batch.
	SaveRecords(ctx context.Context, records []domain.SalaryRecord) error

	// UpdateRecordStatus updates the status fields of one record.
	UpdateRecordStatus(ctx context.Context, recordID string, update domain.RecordStatusUpdate) error

	// UpdateBatchStatus writes the batch-level fields onto every record of a batch.
	UpdateBatchStatus(ctx context.Context, batchID string, update domain.BatchStatusUpdate) error

	// DeleteBatch removes every record of a batch and returns how many were deleted.
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
}

// SalaryRecordRepositoryFacade combines all salary record repository interfaces
type SalaryRecordRepositoryFacade interface {
	SalaryRecordReader
	SalaryRecordWriter
}

// SalaryRecordRepositoryWithTx extends SalaryRecordRepositoryFacade with transaction capabilities
type SalaryRecordRepositoryWithTx interface {
	SalaryRecordRepositoryFacade
	TransactionManager
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordStatus is the processing state of a single salary record.
type RecordStatus string

const (
	RecordPending          RecordStatus = "pending"
	RecordProcessing       RecordStatus = "processing"
	RecordCompleted        RecordStatus = "completed"
	RecordPDFFailed        RecordStatus = "pdf_failed"
	RecordEmailFailed      RecordStatus = "email_failed"
	RecordProcessingFailed RecordStatus = "processing_failed"
)

// RetryableStatuses lists the failed states that RetryFailed picks up again.
var RetryableStatuses = []RecordStatus{RecordPDFFailed, RecordEmailFailed, RecordProcessingFailed}

func (s RecordStatus) String() string { return string(s) }

func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordPending, RecordProcessing, RecordCompleted,
		RecordPDFFailed, RecordEmailFailed, RecordProcessingFailed:
		return true
	}
	return false
}

// IsRetryable reports whether a record in this state is eligible for retry.
func (s RecordStatus) IsRetryable() bool {
	switch s {
	case RecordPDFFailed, RecordEmailFailed, RecordProcessingFailed:
		return true
	}
	return false
}

// BatchStatus is the label written onto every member record of a batch.
type BatchStatus string

const (
	BatchProcessing         BatchStatus = "processing"
	BatchCompleted          BatchStatus = "completed"
	BatchPartiallyCompleted BatchStatus = "partially_completed"
	BatchFailed             BatchStatus = "failed"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchProcessing, BatchCompleted, BatchPartiallyCompleted, BatchFailed:
		return true
	}
	return false
}

// SalaryRecord is one employee's salary data for one pay period.
type SalaryRecord struct {
	RecordID   string `json:"recordID"`
	BatchID    string `json:"batchID"`
	RowIndex   int    `json:"rowIndex"` // position in the uploaded sheet, defines load order
	EmployeeID string `json:"employeeID"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`

	BasicSalary decimal.Decimal `json:"basicSalary"`
	Allowances  decimal.Decimal `json:"allowances"`
	Deductions  decimal.Decimal `json:"deductions"`
	NetSalary   decimal.Decimal `json:"netSalary"`

	Month string `json:"month"`
	Year  int    `json:"year"`

	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	FileName   string    `json:"fileName"`

	Status        RecordStatus `json:"status"`
	StatusMessage string       `json:"statusMessage,omitempty"`
	ProcessedAt   *time.Time   `json:"processedAt,omitempty"`

	// Batch-level fields, denormalized onto each member.
	BatchStatus       *BatchStatus `json:"batchStatus,omitempty"`
	ProcessingDetails []byte       `json:"-"` // raw JSON as last written by the orchestrator
	BatchUpdatedAt    *time.Time   `json:"batchUpdatedAt,omitempty"`
}

// RecordStatusUpdate is the single-record write issued after each processing attempt.
type RecordStatusUpdate struct {
	Status      RecordStatus
	Message     string
	ProcessedAt time.Time
}

// BatchStatusUpdate is the bulk write applied to every record of a batch.
// RecordStatus, when set, also moves each member's own status.
type BatchStatusUpdate struct {
	Status       BatchStatus
	Details      any
	RecordStatus *RecordStatus
	UpdatedAt    time.Time
}

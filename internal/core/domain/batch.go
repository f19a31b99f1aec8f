package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordError describes why one record failed during a run.
type RecordError struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

// BatchResult is the aggregate produced by a full batch run.
type BatchResult struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []RecordError `json:"errors"`
}

// RetryResult is the aggregate produced by retrying the failed subset of a batch.
type RetryResult struct {
	TotalRetried   int           `json:"total_retried"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
	Errors         []RecordError `json:"errors"`
	NothingToRetry bool          `json:"nothing_to_retry"`
	Message        string        `json:"message"`
}

// RecordIssue is a non-completed record reported by the progress query.
type RecordIssue struct {
	EmployeeID string       `json:"employee_id"`
	Name       string       `json:"name"`
	Status     RecordStatus `json:"status"`
	Message    string       `json:"message"`
}

// BatchProgress summarizes the live state of a batch's records.
type BatchProgress struct {
	BatchID              string               `json:"batch_id"`
	BatchStatus          *BatchStatus         `json:"batch_status,omitempty"`
	TotalRecords         int                  `json:"total_records"`
	StatusCounts         map[RecordStatus]int `json:"status_counts"`
	CompletionPercentage float64              `json:"completion_percentage"`
	Errors               []RecordIssue        `json:"errors"`
}

// BatchSummary is one row of the uploaded-batches listing.
type BatchSummary struct {
	BatchID     string       `json:"batch_id"`
	FileName    string       `json:"file_name"`
	UploadTime  time.Time    `json:"upload_time"`
	RecordCount int          `json:"record_count"`
	Month       string       `json:"month"`
	Year        int          `json:"year"`
	Status      *BatchStatus `json:"status,omitempty"`
}

// IngestionResult is returned after a spreadsheet has been stored as a new batch.
type IngestionResult struct {
	BatchID          string          `json:"batch_id"`
	Month            string          `json:"month"`
	Year             int             `json:"year"`
	RecordsProcessed int             `json:"records_processed"`
	TotalBasicSalary decimal.Decimal `json:"total_basic_salary"`
	TotalAllowances  decimal.Decimal `json:"total_allowances"`
	TotalNetSalary   decimal.Decimal `json:"total_net_salary"`
	Records          []SalaryRecord  `json:"salary_records"`
}

// RenderedDocument is the artifact produced by a document renderer.
type RenderedDocument struct {
	Path     string
	FileName string
}

package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord represents one row of the salary_records table.
// Batch-level columns are nullable until a batch run first touches the record.
type SalaryRecord struct {
	RecordID   string `db:"record_id"`
	BatchID    string `db:"batch_id"`
	RowIndex   int    `db:"row_index"`
	EmployeeID string `db:"employee_id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Department string `db:"department"`
	Position   string `db:"position"`

	BasicSalary decimal.Decimal `db:"basic_salary"`
	Allowances  decimal.Decimal `db:"allowances"`
	Deductions  decimal.Decimal `db:"deductions"`
	NetSalary   decimal.Decimal `db:"net_salary"`

	Month string `db:"month"`
	Year  int    `db:"year"`

	UploadedBy string    `db:"uploaded_by"`
	UploadedAt time.Time `db:"upload_time"`
	FileName   string    `db:"file_name"`

	Status        string         `db:"status"`
	StatusMessage sql.NullString `db:"status_message"`
	ProcessedAt   *time.Time     `db:"processed_at"`

	BatchStatus       sql.NullString `db:"batch_status"`
	ProcessingDetails []byte         `db:"processing_details"`
	BatchUpdatedAt    *time.Time     `db:"batch_updated_at"`
}

// BatchSummary is the aggregate row produced when grouping salary_records by batch.
type BatchSummary struct {
	BatchID     string         `db:"batch_id"`
	FileName    string         `db:"file_name"`
	UploadTime  time.Time      `db:"upload_time"`
	RecordCount int            `db:"record_count"`
	Month       string         `db:"month"`
	Year        int            `db:"year"`
	BatchStatus sql.NullString `db:"batch_status"`
}

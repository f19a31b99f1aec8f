package dto

import (
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UploadSalaryRequest carries the multipart form fields sent along with the spreadsheet.
type UploadSalaryRequest struct {
	Month    string `form:"month" binding:"required"`
	Year     int    `form:"year" binding:"required,min=1970,max=9999"`
	FileName string `form:"-"`
}

// ListSalaryRecordsParams defines query parameters for listing salary records.
type ListSalaryRecordsParams struct {
	BatchID   string `form:"batch_id"`
	Month     string `form:"month"`
	Year      int    `form:"year"`
	Limit     int    `form:"limit,default=100" binding:"min=1,max=1000"`
	NextToken string `form:"next_token"`
}

// SalaryRecordResponse is the JSON view of a stored salary record.
type SalaryRecordResponse struct {
	RecordID      string              `json:"record_id"`
	BatchID       string              `json:"batch_id"`
	EmployeeID    string              `json:"employee_id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Department    string              `json:"department"`
	Position      string              `json:"position"`
	BasicSalary   decimal.Decimal     `json:"basic_salary"`
	Allowances    decimal.Decimal     `json:"allowances"`
	Deductions    decimal.Decimal     `json:"deductions"`
	NetSalary     decimal.Decimal     `json:"net_salary"`
	Month         string              `json:"month"`
	Year          int                 `json:"year"`
	FileName      string              `json:"file_name"`
	UploadTime    time.Time           `json:"upload_time"`
	UploadedBy    string              `json:"uploaded_by"`
	Status        domain.RecordStatus `json:"status"`
	StatusMessage string              `json:"status_message,omitempty"`
	ProcessedAt   *time.Time          `json:"processed_at,omitempty"`
	BatchStatus   *domain.BatchStatus `json:"batch_status,omitempty"`
}

// ListSalaryRecordsResponse wraps a page of salary records.
type ListSalaryRecordsResponse struct {
	Status    string                 `json:"status"`
	Count     int                    `json:"count"`
	Data      []SalaryRecordResponse `json:"data"`
	NextToken *string                `json:"next_token,omitempty"`
}

// UploadSalaryResponse is returned after a spreadsheet has been stored.
type UploadSalaryResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Details domain.IngestionResult `json:"details"`
}

// ListBatchesResponse wraps the batch summaries of the caller.
type ListBatchesResponse struct {
	Status string                `json:"status"`
	Count  int                   `json:"count"`
	Data   []domain.BatchSummary `json:"data"`
}

// DeleteBatchResponse reports how many records a batch deletion removed.
type DeleteBatchResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	RecordsDeleted int64  `json:"records_deleted"`
}

// ToSalaryRecordResponse converts a domain.SalaryRecord to SalaryRecordResponse DTO
func ToSalaryRecordResponse(r *domain.SalaryRecord) SalaryRecordResponse {
	return SalaryRecordResponse{
		RecordID:      r.RecordID,
		BatchID:       r.BatchID,
		EmployeeID:    r.EmployeeID,
		Name:          r.Name,
		Email:         r.Email,
		Department:    r.Department,
		Position:      r.Position,
		BasicSalary:   r.BasicSalary,
		Allowances:    r.Allowances,
		Deductions:    r.Deductions,
		NetSalary:     r.NetSalary,
		Month:         r.Month,
		Year:          r.Year,
		FileName:      r.FileName,
		UploadTime:    r.UploadedAt,
		UploadedBy:    r.UploadedBy,
		Status:        r.Status,
		StatusMessage: r.StatusMessage,
		ProcessedAt:   r.ProcessedAt,
		BatchStatus:   r.BatchStatus,
	}
}

// ToSalaryRecordResponses converts a slice of domain.SalaryRecord to []SalaryRecordResponse.
func ToSalaryRecordResponses(records []domain.SalaryRecord) []SalaryRecordResponse {
	res := make([]SalaryRecordResponse, len(records))
	for i := range records {
		res[i] = ToSalaryRecordResponse(&records[i])
	}
	return res
}

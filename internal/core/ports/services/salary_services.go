package services

import (
	"context"
	"io"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	"github.com/SscSPs/payslip_portal/internal/dto"
)

// SalaryIngestionSvc stores uploaded spreadsheets as new batches.
type SalaryIngestionSvc interface {
	UploadSalaryFile(ctx context.Context, req dto.UploadSalaryRequest, file io.Reader, uploaderID string) (*domain.IngestionResult, error)
}

// SalaryReaderSvc defines read operations over stored salary records.
type SalaryReaderSvc interface {
	ListSalaryRecords(ctx context.Context, params dto.ListSalaryRecordsParams) (*dto.ListSalaryRecordsResponse, error)
	ListBatches(ctx context.Context, uploaderID string) ([]domain.BatchSummary, error)
}

// SalaryWriterSvc defines destructive operations over stored salary records.
type SalaryWriterSvc interface {
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
}

// SalarySvcFacade combines all salary-related service interfaces
type SalarySvcFacade interface {
	SalaryIngestionSvc
	SalaryReaderSvc
	SalaryWriterSvc
}

// SpreadsheetParser extracts salary rows from an uploaded file.
type SpreadsheetParser interface {
	// Parse reads rows from r; ext is the lower-case file extension without the dot.
	Parse(r io.Reader, ext string) ([]domain.SalaryRecord, error)
	// Supports reports whether files with this extension can be parsed.
	Supports(ext string) bool
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/payslip_portal/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/dto"
	"github.com/SscSPs/payslip_portal/internal/utils/pagination"
	"github.com/SscSPs/payslip_portal/internal/utils/payroll"
	"github.com/google/uuid"
)

const uploadTimestampLayout = "20060102-150405"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type salaryService struct {
	BaseService
	recordRepo portsrepo.SalaryRecordRepositoryFacade
	parser     portssvc.SpreadsheetParser
	uploadDir  string
	locker     portssvc.BatchLocker
	now        func() time.Time
}

// SalaryServiceOption is a functional option for configuring the salary service
type SalaryServiceOption func(*salaryService)

// WithSalaryClock overrides the time source used for upload timestamps.
func WithSalaryClock(now func() time.Time) SalaryServiceOption {
	return func(s *salaryService) {
		s.now = now
	}
}

// WithSalaryBatchLocker makes DeleteBatch refuse batches that are being processed.
func WithSalaryBatchLocker(locker portssvc.BatchLocker) SalaryServiceOption {
	return func(s *salaryService) {
		s.locker = locker
	}
}

// NewSalaryService creates the salary ingestion and listing service. Uploaded files are kept
// under uploadDir.
func NewSalaryService(
	recordRepo portsrepo.SalaryRecordRepositoryFacade,
	parser portssvc.SpreadsheetParser,
	uploadDir string,
	options ...SalaryServiceOption,
) portssvc.SalarySvcFacade {
	svc := &salaryService{
		recordRepo: recordRepo,
		parser:     parser,
		uploadDir:  uploadDir,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// UploadSalaryFile stores the uploaded spreadsheet, parses it and saves its rows as a new
// pending batch. The stored copy is removed again when parsing or saving fails.
func (s *salaryService) UploadSalaryFile(ctx context.Context, req dto.UploadSalaryRequest, file io.Reader, uploaderID string) (*domain.IngestionResult, error) {
	originalName := filepath.Base(req.FileName)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if originalName == "." || originalName == "" {
		return nil, fmt.Errorf("%w: no file selected", apperrors.ErrValidation)
	}
	if !s.parser.Supports(ext) {
		return nil, fmt.Errorf("%w: file type not allowed, allowed types: csv, xlsx", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	batchID := uuid.NewString()
	storedPath, err := s.storeUpload(file, originalName, batchID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to save uploaded file", slog.String("file_name", originalName))
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	records, err := s.parseStored(storedPath, ext)
	if err != nil {
		s.removeUpload(ctx, storedPath)
		return nil, err
	}

	seen := make(map[string]int, len(records))
	for i := range records {
		r := &records[i]
		if prev, dup := seen[r.EmployeeID]; dup {
			s.removeUpload(ctx, storedPath)
			return nil, fmt.Errorf("%w: employee_id %s appears on rows %d and %d", apperrors.ErrValidation, r.EmployeeID, prev+1, i+1)
		}
		seen[r.EmployeeID] = i

		r.RecordID = uuid.NewString()
		r.BatchID = batchID
		r.RowIndex = i
		r.Month = req.Month
		r.Year = req.Year
		r.UploadedBy = uploaderID
		r.UploadedAt = now
		r.FileName = originalName
		r.Status = domain.RecordPending

		if !payroll.NetMatches(*r) {
			s.LogWarn(ctx, "Net salary does not match basic + allowances - deductions",
				slog.String("employee_id", r.EmployeeID),
				slog.String("net_salary", r.NetSalary.String()),
				slog.String("computed", payroll.ComputeNet(*r).String()))
		}
	}

	if err := s.recordRepo.SaveRecords(ctx, records); err != nil {
		s.removeUpload(ctx, storedPath)
		return nil, fmt.Errorf("error storing data in database: %w", err)
	}

	totals := payroll.SumTotals(records)
	s.LogInfo(ctx, "Salary batch stored",
		slog.String("batch_id", batchID),
		slog.Int("records", len(records)),
		slog.String("stored_path", storedPath))

	return &domain.IngestionResult{
		BatchID:          batchID,
		Month:            req.Month,
		Year:             req.Year,
		RecordsProcessed: len(records),
		TotalBasicSalary: totals.BasicSalary,
		TotalAllowances:  totals.Allowances,
		TotalNetSalary:   totals.NetSalary,
		Records:          records,
	}, nil
}

// storeUpload writes file under uploadDir without ever replacing an existing upload. A name taken
// by an earlier upload in the same second gets the batch id added.
func (s *salaryService) storeUpload(file io.Reader, originalName, batchID string, now time.Time) (path string, err error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}
	safe := unsafeFileChars.ReplaceAllString(originalName, "_")
	stamp := now.Format(uploadTimestampLayout)

	path = filepath.Join(s.uploadDir, fmt.Sprintf("%s_%s", stamp, safe))
	out, err := createExclusive(path)
	if errors.Is(err, os.ErrExist) {
		path = filepath.Join(s.uploadDir, fmt.Sprintf("%s_%s_%s", stamp, batchID, safe))
		out, err = createExclusive(path)
	}
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.Remove(path)
			path = ""
		}
	}()

	if _, err = io.Copy(out, file); err != nil {
		out.Close()
		return path, err
	}
	err = out.Close()
	return path, err
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

func (s *salaryService) parseStored(path, ext string) ([]domain.SalaryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen uploaded file: %w", err)
	}
	defer f.Close()

	records, err := s.parser.Parse(f, ext)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no valid salary rows found in file", apperrors.ErrValidation)
	}
	return records, nil
}

func (s *salaryService) removeUpload(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.LogWarn(ctx, "Failed to remove uploaded file", slog.String("path", path), slog.String("error", err.Error()))
	}
}

// ListSalaryRecords returns one page of records matching the filters.
func (s *salaryService) ListSalaryRecords(ctx context.Context, params dto.ListSalaryRecordsParams) (*dto.ListSalaryRecordsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	filter := portsrepo.SalaryRecordFilter{
		BatchID: params.BatchID,
		Month:   params.Month,
		Year:    params.Year,
		// One extra row tells us whether another page exists.
		Limit: limit + 1,
	}
	if params.NextToken != "" {
		uploadedAt, recordID, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.After = &portsrepo.RecordCursor{UploadedAt: uploadedAt, RecordID: recordID}
	}

	records, err := s.recordRepo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving salary data: %w", err)
	}

	var nextToken *string
	if len(records) > limit {
		records = records[:limit]
		last := records[limit-1]
		token := pagination.EncodeToken(last.UploadedAt, last.RecordID)
		nextToken = &token
	}

	return &dto.ListSalaryRecordsResponse{
		Status:    "success",
		Count:     len(records),
		Data:      dto.ToSalaryRecordResponses(records),
		NextToken: nextToken,
	}, nil
}

// ListBatches summarizes the batches uploaded by uploaderID, newest first.
func (s *salaryService) ListBatches(ctx context.Context, uploaderID string) ([]domain.BatchSummary, error) {
	batches, err := s.recordRepo.ListBatchSummaries(ctx, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving batch data: %w", err)
	}
	if batches == nil {
		batches = []domain.BatchSummary{}
	}
	return batches, nil
}

// DeleteBatch removes every record of a batch.
func (s *salaryService) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, batchID)
		if err != nil {
			return 0, fmt.Errorf("batch %s is being processed: %w", batchID, err)
		}
		defer release()
	}

	deleted, err := s.recordRepo.DeleteBatch(ctx, batchID)
	if err != nil {
		return 0, fmt.Errorf("error deleting batch: %w", err)
	}
	if deleted == 0 {
		return 0, fmt.Errorf("%w: batch %s not found", apperrors.ErrNotFound, batchID)
	}
	s.LogInfo(ctx, "Salary batch deleted", slog.String("batch_id", batchID), slog.Int64("records", deleted))
	return deleted, nil
}

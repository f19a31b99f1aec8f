package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/payslip_portal/internal/core/ports/repositories"
	"github.com/SscSPs/payslip_portal/internal/models"
	"github.com/SscSPs/payslip_portal/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const salaryRecordColumns = `
	record_id, batch_id, row_index, employee_id, name, email, department, position,
	basic_salary, allowances, deductions, net_salary, month, year,
	uploaded_by, upload_time, file_name,
	status, status_message, processed_at,
	batch_status, processing_details, batch_updated_at`

type PgxSalaryRecordRepository struct {
	BaseRepository
}

// newPgxSalaryRecordRepository creates a new repository for salary record data.
func newPgxSalaryRecordRepository(pool *pgxpool.Pool) portsrepo.SalaryRecordRepositoryWithTx {
	return &PgxSalaryRecordRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSalaryRecordRepository implements portsrepo.SalaryRecordRepositoryWithTx
var _ portsrepo.SalaryRecordRepositoryWithTx = (*PgxSalaryRecordRepository)(nil)

// SaveRecords inserts every record of a new batch inside one transaction.
func (r *PgxSalaryRecordRepository) SaveRecords(ctx context.Context, records []domain.SalaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO salary_records (
			record_id, batch_id, row_index, employee_id, name, email, department, position,
			basic_salary, allowances, deductions, net_salary, month, year,
			uploaded_by, upload_time, file_name, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelSalaryRecord(rec)
		batch.Queue(query,
			m.RecordID, m.BatchID, m.RowIndex, m.EmployeeID, m.Name, m.Email, m.Department, m.Position,
			m.BasicSalary, m.Allowances, m.Deductions, m.NetSalary, m.Month, m.Year,
			m.UploadedBy, m.UploadedAt, m.FileName, m.Status,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: employee %s already present in batch", apperrors.ErrDuplicate, records[i].EmployeeID)
			}
			return apperrors.NewAppError(500, "failed to insert salary record "+records[i].RecordID, err)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close insert batch", err)
	}

	return r.Commit(ctx, tx)
}

// FindRecordsByBatch returns every record of a batch ordered by its position in the upload.
func (r *PgxSalaryRecordRepository) FindRecordsByBatch(ctx context.Context, batchID string) ([]domain.SalaryRecord, error) {
	query := `SELECT ` + salaryRecordColumns + `
		FROM salary_records
		WHERE batch_id = $1
		ORDER BY row_index;`
	return r.queryRecords(ctx, query, batchID)
}

func (r *PgxSalaryRecordRepository) FindRecordsByStatuses(ctx context.Context, batchID string, statuses []domain.RecordStatus) ([]domain.SalaryRecord, error) {
	if len(statuses) == 0 {
		return []domain.SalaryRecord{}, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	query := `SELECT ` + salaryRecordColumns + `
		FROM salary_records
		WHERE batch_id = $1 AND status = ANY($2)
		ORDER BY row_index;`
	return r.queryRecords(ctx, query, batchID, names)
}

// ListRecords pages through records with a keyset on (upload_time, record_id).
func (r *PgxSalaryRecordRepository) ListRecords(ctx context.Context, filter portsrepo.SalaryRecordFilter) ([]domain.SalaryRecord, error) {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.BatchID != "" {
		clauses = append(clauses, "batch_id = "+next(filter.BatchID))
	}
	if filter.Month != "" {
		clauses = append(clauses, "month = "+next(filter.Month))
	}
	if filter.Year != 0 {
		clauses = append(clauses, "year = "+next(filter.Year))
	}
	if filter.After != nil {
		p1 := next(filter.After.UploadedAt)
		p2 := next(filter.After.RecordID)
		clauses = append(clauses, "(upload_time, record_id) > ("+p1+", "+p2+")")
	}

	query := `SELECT ` + salaryRecordColumns + ` FROM salary_records`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY upload_time, record_id"
	if filter.Limit > 0 {
		query += " LIMIT " + next(filter.Limit)
	}
	query += ";"

	return r.queryRecords(ctx, query, args...)
}

// ListBatchSummaries groups the uploader's records by batch, newest upload first.
func (r *PgxSalaryRecordRepository) ListBatchSummaries(ctx context.Context, uploadedBy string) ([]domain.BatchSummary, error) {
	query := `
		SELECT batch_id, MIN(file_name), MIN(upload_time), COUNT(*), MIN(month), MIN(year), MAX(batch_status)
		FROM salary_records
		WHERE uploaded_by = $1
		GROUP BY batch_id
		ORDER BY MIN(upload_time) DESC;
	`
	rows, err := r.Pool.Query(ctx, query, uploadedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.BatchSummary{}
	for rows.Next() {
		var m models.BatchSummary
		if err := rows.Scan(&m.BatchID, &m.FileName, &m.UploadTime, &m.RecordCount, &m.Month, &m.Year, &m.BatchStatus); err != nil {
			return nil, fmt.Errorf("failed to scan batch summary row: %w", err)
		}
		summaries = append(summaries, mapping.ToDomainBatchSummary(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating batch summary rows: %w", rows.Err())
	}
	return summaries, nil
}

func (r *PgxSalaryRecordRepository) UpdateRecordStatus(ctx context.Context, recordID string, update domain.RecordStatusUpdate) error {
	query := `
		UPDATE salary_records
		SET status = $1, status_message = $2, processed_at = $3
		WHERE record_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(update.Status), update.Message, update.ProcessedAt, recordID)
	if err != nil {
		return fmt.Errorf("failed to update status of record %s: %w", recordID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("salary record %s: %w", recordID, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateBatchStatus writes the batch label and serialized details onto every record of the batch.
// When update.RecordStatus is set the record statuses move too.
func (r *PgxSalaryRecordRepository) UpdateBatchStatus(ctx context.Context, batchID string, update domain.BatchStatusUpdate) error {
	details, err := json.Marshal(update.Details)
	if err != nil {
		return fmt.Errorf("failed to encode processing details: %w", err)
	}

	var recordStatus *string
	if update.RecordStatus != nil {
		s := string(*update.RecordStatus)
		recordStatus = &s
	}

	query := `
		UPDATE salary_records
		SET batch_status = $1,
		    processing_details = $2,
		    batch_updated_at = $3,
		    status = COALESCE($4, status)
		WHERE batch_id = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(update.Status), details, update.UpdatedAt, recordStatus, batchID)
	if err != nil {
		return fmt.Errorf("failed to update status of batch %s: %w", batchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("batch %s: %w", batchID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxSalaryRecordRepository) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM salary_records WHERE batch_id = $1;`, batchID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete batch %s: %w", batchID, err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *PgxSalaryRecordRepository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.SalaryRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary records: %w", err)
	}
	defer rows.Close()

	modelRecords := []models.SalaryRecord{}
	for rows.Next() {
		var m models.SalaryRecord
		err := rows.Scan(
			&m.RecordID, &m.BatchID, &m.RowIndex, &m.EmployeeID, &m.Name, &m.Email, &m.Department, &m.Position,
			&m.BasicSalary, &m.Allowances, &m.Deductions, &m.NetSalary, &m.Month, &m.Year,
			&m.UploadedBy, &m.UploadedAt, &m.FileName,
			&m.Status, &m.StatusMessage, &m.ProcessedAt,
			&m.BatchStatus, &m.ProcessingDetails, &m.BatchUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record row: %w", err)
		}
		modelRecords = append(modelRecords, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating salary record rows: %w", rows.Err())
	}

	return mapping.ToDomainSalaryRecordSlice(modelRecords), nil
}

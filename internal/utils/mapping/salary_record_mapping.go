package mapping

import (
	"database/sql"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	"github.com/SscSPs/payslip_portal/internal/models"
)

// ToModelSalaryRecord converts a domain SalaryRecord to a model SalaryRecord
func ToModelSalaryRecord(d domain.SalaryRecord) models.SalaryRecord {
	m := models.SalaryRecord{
		RecordID:          d.RecordID,
		BatchID:           d.BatchID,
		RowIndex:          d.RowIndex,
		EmployeeID:        d.EmployeeID,
		Name:              d.Name,
		Email:             d.Email,
		Department:        d.Department,
		Position:          d.Position,
		BasicSalary:       d.BasicSalary,
		Allowances:        d.Allowances,
		Deductions:        d.Deductions,
		NetSalary:         d.NetSalary,
		Month:             d.Month,
		Year:              d.Year,
		UploadedBy:        d.UploadedBy,
		UploadedAt:        d.UploadedAt,
		FileName:          d.FileName,
		Status:            string(d.Status),
		StatusMessage:     sql.NullString{String: d.StatusMessage, Valid: d.StatusMessage != ""},
		ProcessedAt:       d.ProcessedAt,
		ProcessingDetails: d.ProcessingDetails,
		BatchUpdatedAt:    d.BatchUpdatedAt,
	}
	if d.BatchStatus != nil {
		m.BatchStatus = sql.NullString{String: string(*d.BatchStatus), Valid: true}
	}
	return m
}

// ToDomainSalaryRecord converts a model SalaryRecord to a domain SalaryRecord
func ToDomainSalaryRecord(m models.SalaryRecord) domain.SalaryRecord {
	d := domain.SalaryRecord{
		RecordID:          m.RecordID,
		BatchID:           m.BatchID,
		RowIndex:          m.RowIndex,
		EmployeeID:        m.EmployeeID,
		Name:              m.Name,
		Email:             m.Email,
		Department:        m.Department,
		Position:          m.Position,
		BasicSalary:       m.BasicSalary,
		Allowances:        m.Allowances,
		Deductions:        m.Deductions,
		NetSalary:         m.NetSalary,
		Month:             m.Month,
		Year:              m.Year,
		UploadedBy:        m.UploadedBy,
		UploadedAt:        m.UploadedAt,
		FileName:          m.FileName,
		Status:            domain.RecordStatus(m.Status),
		StatusMessage:     m.StatusMessage.String,
		ProcessedAt:       m.ProcessedAt,
		ProcessingDetails: m.ProcessingDetails,
		BatchUpdatedAt:    m.BatchUpdatedAt,
	}
	d.BatchStatus = toDomainBatchStatus(m.BatchStatus)
	return d
}

// ToDomainSalaryRecordSlice converts a slice of model SalaryRecords to a slice of domain SalaryRecords
func ToDomainSalaryRecordSlice(ms []models.SalaryRecord) []domain.SalaryRecord {
	ds := make([]domain.SalaryRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSalaryRecord(m)
	}
	return ds
}

// ToDomainBatchSummary converts a grouped model row to a domain BatchSummary
func ToDomainBatchSummary(m models.BatchSummary) domain.BatchSummary {
	return domain.BatchSummary{
		BatchID:     m.BatchID,
		FileName:    m.FileName,
		UploadTime:  m.UploadTime,
		RecordCount: m.RecordCount,
		Month:       m.Month,
		Year:        m.Year,
		Status:      toDomainBatchStatus(m.BatchStatus),
	}
}

func toDomainBatchStatus(ns sql.NullString) *domain.BatchStatus {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := domain.BatchStatus(ns.String)
	return &s
}

package payroll

import (
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals aggregates the money columns of a batch.
type Totals struct {
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	Deductions  decimal.Decimal
	NetSalary   decimal.Decimal
}

// ComputeNet returns basic + allowances - deductions.
func ComputeNet(r domain.SalaryRecord) decimal.Decimal {
	return r.BasicSalary.Add(r.Allowances).Sub(r.Deductions)
}

// NetMatches reports whether the stated net salary equals the computed one to the cent.
func NetMatches(r domain.SalaryRecord) bool {
	return ComputeNet(r).Round(2).Equal(r.NetSalary.Round(2))
}

// SumTotals adds up the money columns of records.
func SumTotals(records []domain.SalaryRecord) Totals {
	t := Totals{
		BasicSalary: decimal.Zero,
		Allowances:  decimal.Zero,
		Deductions:  decimal.Zero,
		NetSalary:   decimal.Zero,
	}
	for _, r := range records {
		t.BasicSalary = t.BasicSalary.Add(r.BasicSalary)
		t.Allowances = t.Allowances.Add(r.Allowances)
		t.Deductions = t.Deductions.Add(r.Deductions)
		t.NetSalary = t.NetSalary.Add(r.NetSalary)
	}
	return t
}

// Package spreadsheet extracts salary rows from uploaded xlsx and csv files.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{
	"employee_id", "name", "email", "department", "position",
	"basic_salary", "allowances", "deductions", "net_salary",
}

// row holds the raw cell values of one data row. Rows failing validation are dropped.
type row struct {
	EmployeeID  string `validate:"required"`
	Name        string `validate:"required"`
	Email       string `validate:"required,contains=@"`
	Department  string
	Position    string
	BasicSalary string `validate:"required,numeric"`
	Allowances  string
	Deductions  string
	NetSalary   string `validate:"required,numeric"`
}

// Parser reads salary spreadsheets.
type Parser struct {
	validate *validator.Validate
}

var _ portssvc.SpreadsheetParser = (*Parser)(nil)

func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// Supports reports whether ext (lower case, no dot) is a parsable format.
func (p *Parser) Supports(ext string) bool {
	switch ext {
	case "xlsx", "csv":
		return true
	}
	return false
}

// Parse reads the first sheet of an xlsx file, or a csv file, into salary records.
// Only the employee fields are populated.
func (p *Parser) Parse(r io.Reader, ext string) ([]domain.SalaryRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case "xlsx":
		rows, err = readXLSX(r)
	case "csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", apperrors.ErrValidation, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing spreadsheet: %v", apperrors.ErrValidation, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: the spreadsheet is empty", apperrors.ErrValidation)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.SalaryRecord, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		raw := row{
			EmployeeID:  cell(cells, index, "employee_id"),
			Name:        cell(cells, index, "name"),
			Email:       cell(cells, index, "email"),
			Department:  cell(cells, index, "department"),
			Position:    cell(cells, index, "position"),
			BasicSalary: amountText(cell(cells, index, "basic_salary")),
			Allowances:  amountText(cell(cells, index, "allowances")),
			Deductions:  amountText(cell(cells, index, "deductions")),
			NetSalary:   amountText(cell(cells, index, "net_salary")),
		}
		if err := p.validate.Struct(raw); err != nil {
			continue
		}
		records = append(records, domain.SalaryRecord{
			EmployeeID:  normalizeID(raw.EmployeeID),
			Name:        raw.Name,
			Email:       raw.Email,
			Department:  raw.Department,
			Position:    raw.Position,
			BasicSalary: parseAmount(raw.BasicSalary),
			Allowances:  parseAmount(raw.Allowances),
			Deductions:  parseAmount(raw.Deductions),
			NetSalary:   parseAmount(raw.NetSalary),
		})
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("the workbook does not contain any sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}
	return index, nil
}

func cell(cells []string, index map[string]int, col string) string {
	i := index[col]
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// amountText strips thousands separators so "1,250.00" validates as a number.
func amountText(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// parseAmount treats blank or non-numeric optional amounts as zero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// normalizeID turns spreadsheet-formatted numeric IDs such as "1001.0" back into "1001".
func normalizeID(id string) string {
	if whole, frac, ok := strings.Cut(id, "."); ok && strings.Trim(frac, "0") == "" && whole != "" {
		if _, err := decimal.NewFromString(whole); err == nil {
			return whole
		}
	}
	return id
}

// Package pdf renders salary slips with go-pdf/fpdf.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/utils"
	"github.com/go-pdf/fpdf"
)

const footerText = "This is a computer-generated document and does not require a signature."

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_", "..", "_")

type rgb struct{ r, g, b int }

var (
	colorTitle  = rgb{0x2C, 0x3E, 0x50}
	colorHeader = rgb{0x34, 0x49, 0x5E}
	colorLabel  = rgb{0x29, 0x80, 0xB9}
	colorGrid   = rgb{0xBD, 0xC3, 0xC7}
	colorShade  = rgb{0xEC, 0xF0, 0xF1}
	colorBlue   = rgb{0x34, 0x98, 0xDB}
	colorGreen  = rgb{0x2E, 0xCC, 0x71}
)

// Renderer writes one PDF salary slip per record into outputDir.
type Renderer struct {
	outputDir   string
	companyName string
	now         func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides the time source used for the payment date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer creates a renderer that stores slips under outputDir.
func NewRenderer(outputDir, companyName string, opts ...Option) *Renderer {
	r := &Renderer{
		outputDir:   outputDir,
		companyName: companyName,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ portssvc.DocumentRenderer = (*Renderer)(nil)

// FileName returns the slip file name for a record.
func FileName(record domain.SalaryRecord) string {
	name := fmt.Sprintf("salary_slip_%s_%s_%d.pdf", record.EmployeeID, record.Month, record.Year)
	return fileNameReplacer.Replace(name)
}

// Render builds the slip for record and writes it to disk.
func (r *Renderer) Render(ctx context.Context, record domain.SalaryRecord) (*domain.RenderedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}

	fileName := FileName(record)
	path := filepath.Join(r.outputDir, fileName)

	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(25, 25, 25)
	doc.SetAutoPageBreak(true, 10)
	doc.SetTitle("Salary Slip", true)
	doc.SetAuthor(r.companyName, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetHeaderFunc(func() { watermark(doc) })
	doc.AddPage()

	title := func(text string) {
		doc.SetFont("Helvetica", "B", 18)
		setText(doc, colorTitle)
		doc.CellFormat(0, 10, tr(text), "", 1, "C", false, 0, "")
		doc.Ln(3)
	}

	title(r.companyName)
	doc.Ln(4)
	title(fmt.Sprintf("SALARY SLIP - %s %d", strings.ToUpper(record.Month), record.Year))
	doc.Ln(3)

	info := [][2]string{
		{"Employee ID:", record.EmployeeID},
		{"Employee Name:", record.Name},
		{"Email:", record.Email},
		{"Department:", orNA(record.Department)},
		{"Designation:", orNA(record.Position)},
		{"Payment Date:", r.now().Format("02-01-2006")},
	}
	setDraw(doc, colorGrid)
	for _, row := range info {
		doc.SetFont("Helvetica", "B", 10)
		setText(doc, colorLabel)
		setFill(doc, colorShade)
		doc.CellFormat(50, 8, tr(row[0]), "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
		setText(doc, colorTitle)
		doc.CellFormat(76, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 14)
	setText(doc, colorHeader)
	doc.CellFormat(0, 8, "EARNINGS & DEDUCTIONS", "", 1, "L", false, 0, "")
	doc.Ln(2)

	amountRow := func(label, amount string, fill *rgb, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		doc.SetFont("Helvetica", style, 10)
		if fill != nil {
			setFill(doc, *fill)
			doc.SetTextColor(255, 255, 255)
		} else {
			setText(doc, colorTitle)
		}
		doc.CellFormat(76, 8, label, "1", 0, "L", fill != nil, 0, "")
		doc.CellFormat(64, 8, amount, "1", 1, "R", fill != nil, 0, "")
	}
	amountRow("DESCRIPTION", "AMOUNT", &colorBlue, true)
	amountRow("Basic Salary", utils.FormatMoney(record.BasicSalary), nil, false)
	amountRow("Allowances", utils.FormatMoney(record.Allowances), nil, false)
	amountRow("Deductions", utils.FormatMoney(record.Deductions), nil, false)
	amountRow("Net Salary", utils.FormatMoney(record.NetSalary), &colorGreen, true)
	doc.Ln(8)

	doc.SetFont("Helvetica", "", 10)
	setText(doc, colorTitle)
	doc.MultiCell(0, 5, footerText, "", "L", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}

	return &domain.RenderedDocument{Path: path, FileName: fileName}, nil
}

func watermark(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "", 60)
	doc.SetTextColor(230, 230, 230)
	doc.SetAlpha(0.3, "Normal")
	doc.TransformBegin()
	doc.TransformRotate(45, 60, 200)
	doc.Text(60, 200, "CONFIDENTIAL")
	doc.TransformEnd()
	doc.SetAlpha(1, "Normal")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func setText(doc *fpdf.Fpdf, c rgb) { doc.SetTextColor(c.r, c.g, c.b) }
func setFill(doc *fpdf.Fpdf, c rgb) { doc.SetFillColor(c.r, c.g, c.b) }
func setDraw(doc *fpdf.Fpdf, c rgb) { doc.SetDrawColor(c.r, c.g, c.b) }

package payroll

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-payroll/internal/grade"
)

const (
	payslipStorageDirEnv = "PAYSLIP_STORAGE_DIR"
	payslipBaseURLEnv    = "PAYSLIP_PUBLIC_BASE_URL"
)

// writeRecordPayslip renders the record as a single-page PDF under the
// storage dir and returns the public URL for it.
func writeRecordPayslip(run *PayrollRun, rec *PayrollRecord) (string, error) {
	dir := os.Getenv(payslipStorageDirEnv)
	if dir == "" {
		dir = "payslips"
	}
	baseURL := strings.TrimRight(os.Getenv(payslipBaseURLEnv), "/")
	if baseURL == "" {
		baseURL = "/payslips"
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(run, rec))
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%s.pdf", run.ID.String(), rec.EmployeeID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), pdf, 0o644); err != nil {
		return "", err
	}

	return baseURL + "/" + filename, nil
}

func payslipLines(run *PayrollRun, rec *PayrollRecord) []string {
	lines := []string{
		fmt.Sprintf("Payslip %02d/%d", run.Month, run.Year),
		fmt.Sprintf("Employee: %s", rec.EmployeeID.String()),
		fmt.Sprintf("Base salary: %s", rec.BaseSalary.String()),
	}

	for _, line := range rec.Lines {
		sign := "+"
		if line.Kind == grade.ComponentKindDeduction {
			sign = "-"
		}
		lines = append(lines, fmt.Sprintf("%s %s%s", line.Name, sign, line.Amount.String()))
	}

	lines = append(lines,
		fmt.Sprintf("Gross pay: %s", rec.GrossPay.String()),
		fmt.Sprintf("Total deductions: %s", rec.TotalDeductions.String()),
		fmt.Sprintf("Net pay: %s", rec.NetPay.String()),
	)

	if rec.BankName != "" {
		lines = append(lines, fmt.Sprintf("Paid to %s %s (%s)", rec.BankName, rec.BankAccountNumber, rec.BankAccountName))
	}

	return lines
}

func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n50 800 Td\n14 TL\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}

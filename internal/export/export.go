// Package export renders an audit result in the downloadable formats: a
// structured JSON snapshot, the raw report text, and an XLSX dossier
// workbook.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/openomi/pof-auditor/internal/models"
)

// Format selects one of the supported export encodings.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render encodes the result in the requested format.
func Render(result *models.AuditResult, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSONSnapshot(result)
	case FormatText:
		return ReportText(result), nil
	case FormatXLSX:
		return DossierXLSX(result)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// JSONSnapshot serializes the structured snapshot. Parsing it back
// reproduces verdict, document count and red-flag count exactly.
func JSONSnapshot(result *models.AuditResult) ([]byte, error) {
	data, err := json.MarshalIndent(result.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshot decodes a previously exported snapshot.
func ParseSnapshot(data []byte) (models.ResultSnapshot, error) {
	var snapshot models.ResultSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snapshot, nil
}

// ReportText returns the raw agent report.
func ReportText(result *models.AuditResult) []byte {
	return []byte(result.ReportText)
}

// DossierXLSX builds a workbook with one sheet of per-document status and
// one sheet of all extracted transactions.
func DossierXLSX(result *models.AuditResult) ([]byte, error) {
	f := excelize.NewFile()

	const docSheet = "Documents"
	if err := writeDocumentSheet(f, docSheet, result); err != nil {
		return nil, err
	}

	const txSheet = "Transactions"
	if err := writeTransactionSheet(f, txSheet, result.Dossier); err != nil {
		return nil, err
	}

	// Replace the default sheet with ours.
	index, err := f.GetSheetIndex(docSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDocumentSheet(f *excelize.File, sheet string, result *models.AuditResult) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Document", "Storage Key", "Status", "Account Holder", "Opening Balance", "Ending Balance", "Currency"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, record := range result.Dossier {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, record.OriginalName)
		write(2, record.StorageKey)
		if record.Failed() {
			write(3, record.Err)
		} else {
			write(3, "extracted")
			write(4, record.Statement.AccountHolder)
			write(5, record.Statement.OpenBalance)
			write(6, record.Statement.EndingBalance)
			write(7, record.Statement.Currency)
		}
		row++
	}

	summaryRow := row + 1
	for i, pair := range [][2]any{
		{"Verdict", string(result.Verdict)},
		{"Red Flags", result.RedFlagCount},
		{"Elapsed Seconds", result.ElapsedSeconds},
	} {
		keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow+i)
		valCell, _ := excelize.CoordinatesToCellName(2, summaryRow+i)
		_ = f.SetCellValue(sheet, keyCell, pair[0])
		_ = f.SetCellValue(sheet, valCell, pair[1])
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 52)
	_ = f.SetColWidth(sheet, "C", "C", 40)
	_ = f.SetColWidth(sheet, "D", "D", 24)

	return nil
}

func writeTransactionSheet(f *excelize.File, sheet string, dossier models.Dossier) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Document", "Date", "Description", "Amount", "Currency"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, record := range dossier {
		if record.Failed() {
			continue
		}
		for _, tx := range record.Statement.Transactions {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			write(1, record.OriginalName)
			write(2, tx.Date)
			write(3, tx.Description)
			write(4, tx.Amount)
			write(5, record.Statement.Currency)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "C", "C", 48)

	return nil
}

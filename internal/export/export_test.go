package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/openomi/pof-auditor/internal/models"
)

func sampleResult() *models.AuditResult {
	return &models.AuditResult{
		Timestamp:      time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC),
		Verdict:        models.VerdictRejected,
		DocumentCount:  2,
		ElapsedSeconds: 42.5,
		RedFlagCount:   3,
		ReportText:     "RED FLAG: unexplained deposit. ❌ gap in statements. REJECTED.",
		Dossier: models.Dossier{
			{
				OriginalName: "statement_month_1.pdf",
				StorageKey:   "uploads/abc/statement_month_1.pdf",
				Statement: &models.BankStatement{
					AccountHolder: "Jane Tester",
					OpenBalance:   1500.25,
					EndingBalance: 980.10,
					Currency:      "CAD",
					Transactions: []models.Transaction{
						{Date: "2025-10-01", Description: "payroll", Amount: 2400},
						{Date: "2025-10-15", Description: "rent", Amount: -1800},
					},
				},
			},
			{
				OriginalName: "statement_month_2.pdf",
				StorageKey:   "uploads/def/statement_month_2.pdf",
				Err:          "extraction failed for document statement_month_2.pdf: parse failed",
			},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	result := sampleResult()

	data, err := JSONSnapshot(result)
	if err != nil {
		t.Fatalf("JSONSnapshot returned error: %v", err)
	}

	snapshot, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot returned error: %v", err)
	}

	if snapshot.Verdict != result.Verdict {
		t.Errorf("Verdict = %q, want %q", snapshot.Verdict, result.Verdict)
	}
	if snapshot.DocumentCount != result.DocumentCount {
		t.Errorf("DocumentCount = %d, want %d", snapshot.DocumentCount, result.DocumentCount)
	}
	if snapshot.RedFlagCount != result.RedFlagCount {
		t.Errorf("RedFlagCount = %d, want %d", snapshot.RedFlagCount, result.RedFlagCount)
	}
	if snapshot.ReportText != result.ReportText {
		t.Errorf("ReportText = %q, want %q", snapshot.ReportText, result.ReportText)
	}
}

func TestReportText(t *testing.T) {
	result := sampleResult()

	data := ReportText(result)
	if string(data) != result.ReportText {
		t.Errorf("ReportText = %q, want the raw report", string(data))
	}
}

func TestDossierXLSX(t *testing.T) {
	result := sampleResult()

	data, err := DossierXLSX(result)
	if err != nil {
		t.Fatalf("DossierXLSX returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported workbook is not readable: %v", err)
	}
	defer f.Close()

	docRows, err := f.GetRows("Documents")
	if err != nil {
		t.Fatalf("missing Documents sheet: %v", err)
	}
	// header + one row per dossier record
	if len(docRows) < 1+len(result.Dossier) {
		t.Errorf("Documents sheet has %d rows, want at least %d", len(docRows), 1+len(result.Dossier))
	}
	if docRows[1][0] != "statement_month_1.pdf" {
		t.Errorf("first document row = %q, want statement_month_1.pdf", docRows[1][0])
	}
	if !strings.Contains(docRows[2][2], "parse failed") {
		t.Errorf("errored document row should carry the error, got %q", docRows[2][2])
	}

	txRows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("missing Transactions sheet: %v", err)
	}
	// header + two transactions from the successful document only
	if len(txRows) != 3 {
		t.Errorf("Transactions sheet has %d rows, want 3", len(txRows))
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(sampleResult(), Format("csv")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

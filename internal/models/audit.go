package models

import (
	"time"
)

// Verdict is the three-way classification derived from the reasoning report.
type Verdict string

const (
	VerdictApproved    Verdict = "APPROVED"
	VerdictRejected    Verdict = "REJECTED"
	VerdictNeedsReview Verdict = "NEEDS_REVIEW"
)

// UploadedDocument is a user-supplied file before it reaches object storage.
type UploadedDocument struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

// StoredDocument is an uploaded file after it has been persisted.
type StoredDocument struct {
	OriginalName string `json:"original_name"`
	StorageKey   string `json:"storage_key"`
}

// Transaction is a single line item extracted from a bank statement.
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// BankStatement holds the structured fields extracted from one document.
type BankStatement struct {
	AccountHolder string        `json:"account_holder"`
	OpenBalance   float64       `json:"open_balance"`
	EndingBalance float64       `json:"ending_balance"`
	Currency      string        `json:"currency"`
	Transactions  []Transaction `json:"transactions"`
}

// ExtractionRecord is the outcome of extracting one document: either a
// structured statement or an error message, never both. Every uploaded
// document yields exactly one record.
type ExtractionRecord struct {
	OriginalName string         `json:"original_name"`
	StorageKey   string         `json:"storage_key"`
	Statement    *BankStatement `json:"statement,omitempty"`
	Err          string         `json:"error,omitempty"`
}

// Failed reports whether this record carries an error instead of a statement.
func (r ExtractionRecord) Failed() bool {
	return r.Err != ""
}

// Dossier is the ordered set of extraction records for one audit request.
// Order matches upload order. Errored records are kept, not filtered, so the
// reasoning stage can account for missing documents in its narrative.
type Dossier []ExtractionRecord

// AuditRequest carries the program context for one audit.
type AuditRequest struct {
	ProgramCode string `json:"program_code"`
	FamilySize  int    `json:"family_size"`
}

// AuditResult is the complete outcome of one audit request.
type AuditResult struct {
	Timestamp      time.Time `json:"timestamp"`
	Verdict        Verdict   `json:"verdict"`
	DocumentCount  int       `json:"document_count"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	RedFlagCount   int       `json:"red_flag_count"`
	ReportText     string    `json:"report_text"`
	Dossier        Dossier   `json:"dossier,omitempty"`
}

// ResultSnapshot is the exportable subset of an AuditResult.
type ResultSnapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	Verdict        Verdict   `json:"verdict"`
	DocumentCount  int       `json:"document_count"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	RedFlagCount   int       `json:"red_flag_count"`
	ReportText     string    `json:"report_text"`
}

// Snapshot returns the exportable view of the result.
func (r *AuditResult) Snapshot() ResultSnapshot {
	return ResultSnapshot{
		Timestamp:      r.Timestamp,
		Verdict:        r.Verdict,
		DocumentCount:  r.DocumentCount,
		ElapsedSeconds: r.ElapsedSeconds,
		RedFlagCount:   r.RedFlagCount,
		ReportText:     r.ReportText,
	}
}

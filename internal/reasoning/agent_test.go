package reasoning

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/openomi/pof-auditor/internal/models"
	"github.com/openomi/pof-auditor/internal/utils"
)

func TestReasonWithoutAgentConfigReturnsSentinel(t *testing.T) {
	// No client is wired at all: the configuration check must short-circuit
	// before anything could dial out, or this test panics.
	r := &agentReasoner{
		client:  nil,
		timeout: time.Minute,
		logger:  utils.NewLogger(slog.LevelError, ""),
	}

	dossier := models.Dossier{{OriginalName: "statement.pdf"}}
	report := r.Reason(context.Background(), dossier, models.AuditRequest{ProgramCode: "SDS", FamilySize: 1})

	if !strings.Contains(report, "ERROR") {
		t.Errorf("sentinel report should contain ERROR, got %q", report)
	}
	if !strings.Contains(report, "not configured") {
		t.Errorf("sentinel report should name the configuration problem, got %q", report)
	}
}

func TestBuildPromptEmbedsDossierAndContext(t *testing.T) {
	dossier := models.Dossier{
		{
			OriginalName: "statement_month_1.pdf",
			StorageKey:   "uploads/abc/statement_month_1.pdf",
			Statement: &models.BankStatement{
				AccountHolder: "Jane Tester",
				OpenBalance:   100,
				EndingBalance: 200,
				Currency:      "CAD",
			},
		},
		{
			OriginalName: "statement_month_2.pdf",
			Err:          "extraction failed for document statement_month_2.pdf: parse failed",
		},
	}

	prompt, err := BuildPrompt(dossier, models.AuditRequest{ProgramCode: "SDS", FamilySize: 4})
	if err != nil {
		t.Fatalf("BuildPrompt returned error: %v", err)
	}

	for _, want := range []string{
		"SDS",
		"Family size: 4",
		"Jane Tester",
		"statement_month_1.pdf",
		// Errored records are part of the narrative, not filtered out.
		"parse failed",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

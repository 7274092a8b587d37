package verdict

import (
	"testing"

	"github.com/openomi/pof-auditor/internal/models"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   models.Verdict
	}{
		{"uppercase approved", "Final verdict: APPROVED", models.VerdictApproved},
		{"lowercase approved", "the application looks approved to me", models.VerdictApproved},
		{"mixed case approved", "Approved after review", models.VerdictApproved},
		{"rejected", "Final verdict: REJECTED", models.VerdictRejected},
		{"lowercase rejected", "this must be rejected", models.VerdictRejected},
		{"neither keyword", "The statements look consistent overall.", models.VerdictNeedsReview},
		{"empty report", "", models.VerdictNeedsReview},
		{"error sentinel", "ERROR: reasoning agent call failed: timeout", models.VerdictNeedsReview},
		// Priority order is intentional: APPROVED is tested first, so a
		// report containing both keywords resolves to APPROVED.
		{"both keywords", "REJECTED items noted, but overall APPROVED", models.VerdictApproved},
		// Substring matching is a preserved heuristic limitation.
		{"approved inside a word", "the disapproved items were removed", models.VerdictApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.report)
			if got != tt.want {
				t.Errorf("Derive(%q) = %q, want %q", tt.report, got, tt.want)
			}
		})
	}
}

func TestCountRedFlags(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   int
	}{
		{"none", "all statements are consistent", 0},
		{"single mention", "RED FLAG: unexplained deposit", 1},
		{"case insensitive", "red flag here and Red Flag there", 2},
		{"glyph only", "❌ missing month of statements", 1},
		{"mixed markers", "RED FLAG: X. ❌ Y. red flag: Z.", 3},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountRedFlags(tt.report)
			if got != tt.want {
				t.Errorf("CountRedFlags(%q) = %d, want %d", tt.report, got, tt.want)
			}
		})
	}
}

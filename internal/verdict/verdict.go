// Package verdict derives the audit outcome from the reasoning report. This
// is a keyword heuristic over free text, not a parser.
package verdict

import (
	"strings"

	"github.com/openomi/pof-auditor/internal/models"
)

// FlagGlyph is the marker the agent's report template uses for one finding.
const FlagGlyph = "❌"

// Derive classifies a report by case-insensitive substring search, first
// match wins: APPROVED before REJECTED, NEEDS_REVIEW when neither appears.
// A report containing both keywords resolves to APPROVED; the priority order
// is intentional and load-bearing, see derive tests. Matching is substring,
// not word-boundary, which is a known limitation of the heuristic.
func Derive(report string) models.Verdict {
	upper := strings.ToUpper(report)

	switch {
	case strings.Contains(upper, "APPROVED"):
		return models.VerdictApproved
	case strings.Contains(upper, "REJECTED"):
		return models.VerdictRejected
	default:
		return models.VerdictNeedsReview
	}
}

// CountRedFlags counts flagged findings: case-insensitive "RED FLAG"
// mentions plus occurrences of the flag glyph.
func CountRedFlags(report string) int {
	upper := strings.ToUpper(report)
	return strings.Count(upper, "RED FLAG") + strings.Count(report, FlagGlyph)
}

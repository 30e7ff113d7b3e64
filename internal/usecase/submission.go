package usecase

import (
	"fmt"
	"strings"

	"adspilot/internal/domain"
)

// provenance tag prefixed to every submitted reason
const reasonPrefix = "Google Ads: "

// cap on the raw error text carried with a submission
const maxOriginalErrorLen = 500

// banEligibleKinds are the only kinds forwarded to the deny-list backend.
var banEligibleKinds = map[domain.ErrorKind]bool{
	domain.KindKeyword:     true,
	domain.KindHeadline:    true,
	domain.KindDescription: true,
}

// BuildSubmissionBatch converts a ParseReport into an ordered, deduplicated
// batch of SubmissionItem. Only keyword/headline/description errors are
// eligible; duplicates are collapsed on (kind, lowercased value) with the
// first occurrence winning.
func BuildSubmissionBatch(report *domain.ParseReport, action domain.SubmissionAction) []domain.SubmissionItem {
	items := make([]domain.SubmissionItem, 0, len(report.Errors))
	seen := make(map[string]bool, len(report.Errors))

	for _, e := range report.Errors {
		if !banEligibleKinds[e.Kind] {
			continue
		}

		key := string(e.Kind) + "|" + strings.ToLower(e.Value)
		if seen[key] {
			continue
		}
		seen[key] = true

		items = append(items, domain.SubmissionItem{
			Type:          e.Kind,
			Value:         e.Value,
			Reason:        reasonPrefix + e.Reason,
			OriginalError: capRunes(e.OriginalError, maxOriginalErrorLen),
			Action:        action,
		})
	}

	return items
}

// capRunes trims s to at most limit runes without an ellipsis marker.
func capRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// FormatSummary renders a human-readable text report of a parse.
func FormatSummary(report *domain.ParseReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", report.Filename)
	fmt.Fprintf(&b, "Total rows: %d\n", report.TotalRows)
	fmt.Fprintf(&b, "Successful: %d\n", report.SuccessRows)
	fmt.Fprintf(&b, "With errors: %d\n\n", report.ErrorRows)
	fmt.Fprintf(&b, "Keywords with errors: %d\n", len(report.Keywords))
	fmt.Fprintf(&b, "Headlines with errors: %d\n", len(report.Headlines))
	fmt.Fprintf(&b, "Descriptions with errors: %d\n", len(report.Descriptions))
	fmt.Fprintf(&b, "Other errors: %d\n", len(report.OtherErrors))

	writeSection := func(title string, errs []domain.ParsedError, limit int) {
		if len(errs) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n-- %s --\n", title)
		if len(errs) > limit {
			errs = errs[:limit]
		}
		for _, e := range errs {
			fmt.Fprintf(&b, "  %s  <-  %s\n", capRunes(e.Value, 50), capRunes(e.Reason, 60))
		}
	}

	writeSection("Rejected Keywords", report.Keywords, 20)
	writeSection("Rejected Headlines", report.Headlines, 10)
	writeSection("Rejected Descriptions", report.Descriptions, 10)

	total := len(report.Keywords) + len(report.Headlines) + len(report.Descriptions)
	fmt.Fprintf(&b, "\nReady for deny-list submission: %d\n", total)

	return b.String()
}

package usecase

import (
	"strings"
	"testing"

	"adspilot/internal/domain"
)

func sampleReport() *domain.ParseReport {
	r := &domain.ParseReport{
		Filename:    "results.csv",
		TotalRows:   5,
		ErrorRows:   4,
		SuccessRows: 1,
		Errors: []domain.ParsedError{
			{Kind: domain.KindKeyword, Value: "Gym", Reason: "policy violation", OriginalError: "Error: policy violation"},
			{Kind: domain.KindKeyword, Value: "gym", Reason: "policy violation again", OriginalError: "Error: policy violation again"},
			{Kind: domain.KindHeadline, Value: "Join Now", Reason: "too long", OriginalError: "Error: too long"},
			{Kind: domain.KindCampaign, Value: "Summer Sale", Reason: "invalid budget", OriginalError: "Error: invalid budget"},
		},
	}
	r.Partition()
	return r
}

func TestBuildSubmissionBatch_DedupAndEligibility(t *testing.T) {
	items := BuildSubmissionBatch(sampleReport(), domain.ActionPending)

	// Gym/gym collapse, campaign errors are not ban-eligible
	if len(items) != 2 {
		t.Fatalf("batch size = %d, want 2", len(items))
	}
	if items[0].Value != "Gym" {
		t.Errorf("first occurrence should win, got %q", items[0].Value)
	}
	if items[1].Type != domain.KindHeadline || items[1].Value != "Join Now" {
		t.Errorf("second item = %+v", items[1])
	}
	for _, it := range items {
		if it.Action != domain.ActionPending {
			t.Errorf("action = %q, want %q", it.Action, domain.ActionPending)
		}
		if !strings.HasPrefix(it.Reason, "Google Ads: ") {
			t.Errorf("reason %q is missing the provenance prefix", it.Reason)
		}
	}
}

func TestBuildSubmissionBatch_CapsOriginalError(t *testing.T) {
	report := &domain.ParseReport{
		Errors: []domain.ParsedError{{
			Kind:          domain.KindKeyword,
			Value:         "yoga",
			Reason:        "too long",
			OriginalError: strings.Repeat("x", 600),
		}},
	}

	items := BuildSubmissionBatch(report, domain.ActionAutoBan)
	if len(items) != 1 {
		t.Fatalf("batch size = %d, want 1", len(items))
	}
	if got := len([]rune(items[0].OriginalError)); got != maxOriginalErrorLen {
		t.Errorf("original error length = %d, want %d", got, maxOriginalErrorLen)
	}
	if items[0].Action != domain.ActionAutoBan {
		t.Errorf("action = %q, want %q", items[0].Action, domain.ActionAutoBan)
	}
}

func TestBuildSubmissionBatch_EmptyReport(t *testing.T) {
	items := BuildSubmissionBatch(&domain.ParseReport{}, domain.ActionPending)
	if len(items) != 0 {
		t.Errorf("batch size = %d, want 0", len(items))
	}
}

func TestFormatSummary(t *testing.T) {
	summary := FormatSummary(sampleReport())

	for _, want := range []string{
		"File: results.csv",
		"Total rows: 5",
		"Successful: 1",
		"With errors: 4",
		"-- Rejected Keywords --",
		"-- Rejected Headlines --",
		"Ready for deny-list submission: 3",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary is missing %q:\n%s", want, summary)
		}
	}
}

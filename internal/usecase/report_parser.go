package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"adspilot/internal/domain"
)

// sample size used for delimiter sniffing
const delimiterSampleSize = 2048

// maxReasonLen caps cleaned rejection reasons
const maxReasonLen = 200

// words that indicate a failed row
var errorIndicators = []string{
	"error", "rejected", "disapproved", "policy violation",
	"not eligible", "violation", "invalid", "too long",
	"restricted", "trademark", "misleading", "unacceptable",
	"failed", "couldn't", "couldn't create", "not allowed",
	"limit exceeded", "character limit", "exceeds",
}

// words that indicate a successful row
var successIndicators = []string{
	"successfully", "success", "created", "added", "updated",
	"approved", "eligible", "active", "enabled",
}

// hard-failure words that override a success indicator
var hardFailureIndicators = []string{"error", "rejected", "disapproved", "violation"}

// words that mark a row-wide policy failure; when present, every populated
// headline/description of the ad is attributed
var generalPolicyIndicators = []string{
	"policy", "trademark", "misleading", "restricted", "disapproved", "rejected",
}

// priority order for resolving the rejection-text column
var errorColumnPriority = []string{
	"results", "result", "error", "error_details",
	"comment", "validation_error", "policy", "status",
}

// fallback vocabulary for substring matching against headers
var errorColumnFallback = []string{"error", "result", "comment", "policy", "validation"}

// DetectDelimiter sniffs the field delimiter from a sample of file text.
// Tab wins if it strictly dominates both comma and semicolon, semicolon wins
// over comma, comma is the default.
func DetectDelimiter(sample []byte) rune {
	commas := bytes.Count(sample, []byte{','})
	semis := bytes.Count(sample, []byte{';'})
	tabs := bytes.Count(sample, []byte{'\t'})

	if tabs > commas && tabs > semis {
		return '\t'
	}
	if semis > commas {
		return ';'
	}
	return ','
}

// normalizeHeader lowercases a column name and collapses spaces/hyphens to
// underscores so lookups are insensitive to export formatting.
func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, " ", "_")
	h = strings.ReplaceAll(h, "-", "_")
	return h
}

// rowView gives normalized-name access to one CSV row's cells.
type rowView map[string]string

func newRowView(headers, record []string) rowView {
	v := make(rowView, len(headers))
	for i, h := range headers {
		if i >= len(record) {
			break
		}
		v[normalizeHeader(h)] = record[i]
	}
	return v
}

// get returns the trimmed cell value for a normalized column name; the second
// return reports whether the column exists at all.
func (v rowView) get(name string) (string, bool) {
	raw, ok := v[name]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// resolveErrorColumn finds the column holding the platform rejection text.
// Exact normalized matches in priority order first, then substring fallback.
// Returns false when no column qualifies.
func resolveErrorColumn(headers []string) (string, bool) {
	normalized := make(map[string]bool, len(headers))
	for _, h := range headers {
		normalized[normalizeHeader(h)] = true
	}

	for _, key := range errorColumnPriority {
		if normalized[key] {
			return key, true
		}
	}

	for _, h := range headers {
		norm := normalizeHeader(h)
		for _, word := range errorColumnFallback {
			if strings.Contains(norm, word) {
				return norm, true
			}
		}
	}

	return "", false
}

// isErrorRow decides whether non-empty result text marks a failure. A success
// indicator without a hard-failure word means success; any error indicator
// means failure; any other non-empty text is treated as a failure, since the
// exporter rarely annotates successful rows.
func isErrorRow(errorText string) bool {
	text := strings.ToLower(errorText)

	for _, s := range successIndicators {
		if strings.Contains(text, s) && !containsAny(text, hardFailureIndicators) {
			return false
		}
	}

	for _, e := range errorIndicators {
		if strings.Contains(text, e) {
			return true
		}
	}

	return len(strings.TrimSpace(text)) > 0
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// extractReason cleans rejection text into a short reason: keep the segment
// after the first ": " when it is substantial, then cap at 200 characters.
func extractReason(errorText string) string {
	text := strings.TrimSpace(errorText)

	if idx := strings.Index(text, ": "); idx >= 0 {
		tail := text[idx+2:]
		if len([]rune(tail)) > 10 {
			text = tail
		}
	}

	return truncateRunes(text, maxReasonLen)
}

// truncateRunes hard-caps s at limit runes, appending an ellipsis marker.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// extractHeadlineErrors attributes failing headlines of a responsive search
// ad row. A headline is attributed when it is literally quoted in the
// rejection text, or when the rejection is a row-wide policy failure.
func extractHeadlineErrors(row rowView, rowType, errorText string) []domain.ParsedError {
	return extractNumberedFields(row, rowType, errorText, "headline", 15, domain.KindHeadline)
}

// extractDescriptionErrors does the same for description fields.
func extractDescriptionErrors(row rowView, rowType, errorText string) []domain.ParsedError {
	return extractNumberedFields(row, rowType, errorText, "description", 4, domain.KindDescription)
}

func extractNumberedFields(row rowView, rowType, errorText, field string, max int, kind domain.ErrorKind) []domain.ParsedError {
	var errs []domain.ParsedError
	errorLower := strings.ToLower(errorText)
	reason := extractReason(errorText)
	isGeneral := containsAny(errorLower, generalPolicyIndicators)

	for i := 1; i <= max; i++ {
		col := fmt.Sprintf("%s_%d", field, i)
		val, _ := row.get(col)
		if val == "" {
			continue
		}

		isSpecific := strings.Contains(errorLower, strings.ToLower(val)) ||
			strings.Contains(errorLower, fmt.Sprintf("%s %d", field, i))

		if isSpecific || isGeneral {
			errs = append(errs, domain.ParsedError{
				Kind:          kind,
				Value:         val,
				Reason:        reason,
				OriginalError: errorText,
				RowType:       rowType,
			})
		}
	}

	return errs
}

// extractRowErrors turns one classified failure row into zero or more
// ParsedError records based on its declared row type.
func extractRowErrors(row rowView, rowType, errorText string) []domain.ParsedError {
	reason := extractReason(errorText)

	switch strings.ToLower(rowType) {
	case "keyword", "keywords":
		kw, _ := row.get("keyword")
		if kw == "" {
			return nil
		}
		return []domain.ParsedError{{
			Kind:          domain.KindKeyword,
			Value:         kw,
			Reason:        reason,
			OriginalError: errorText,
			RowType:       rowType,
		}}

	case "responsive search ad", "ad", "text ad":
		errs := extractHeadlineErrors(row, rowType, errorText)
		errs = append(errs, extractDescriptionErrors(row, rowType, errorText)...)
		if len(errs) == 0 {
			errs = append(errs, domain.ParsedError{
				Kind:          domain.KindAd,
				Value:         fmt.Sprintf("[%s] Ad error", rowType),
				Reason:        reason,
				OriginalError: errorText,
				RowType:       rowType,
			})
		}
		return errs

	case "campaign":
		name, _ := row.get("campaign")
		if name == "" {
			name = "Unknown campaign"
		}
		return []domain.ParsedError{{
			Kind:          domain.KindCampaign,
			Value:         name,
			Reason:        reason,
			OriginalError: errorText,
			RowType:       rowType,
		}}

	case "ad group", "ad_group":
		name, _ := row.get("ad_group")
		if name == "" {
			name = "Unknown ad group"
		}
		return []domain.ParsedError{{
			Kind:          domain.KindAdGroup,
			Value:         name,
			Reason:        reason,
			OriginalError: errorText,
			RowType:       rowType,
		}}
	}

	// unrecognized row type: last-resort keyword lookup, else a generic record
	if rowType == "" {
		rowType = "Unknown"
	}
	if kw, _ := row.get("keyword"); kw != "" {
		return []domain.ParsedError{{
			Kind:          domain.KindKeyword,
			Value:         kw,
			Reason:        reason,
			OriginalError: errorText,
			RowType:       rowType,
		}}
	}
	return []domain.ParsedError{{
		Kind:          domain.KindOther,
		Value:         truncateRunes(errorText, 100),
		Reason:        reason,
		OriginalError: errorText,
		RowType:       rowType,
	}}
}

// ParseResultsFile parses one upload-results file into a ParseReport.
// The delimiter is sniffed from the first 2KB; header names are matched
// case/space/hyphen-insensitively. Only structurally unreadable input
// returns an error.
func ParseResultsFile(filename string, r io.Reader) (*domain.ParseReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	sample := data
	if len(sample) > delimiterSampleSize {
		sample = sample[:delimiterSampleSize]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(sample)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoHeader, filename)
	}

	errorCol, hasErrorCol := resolveErrorColumn(headers)

	hasRowType := false
	for _, h := range headers {
		if norm := normalizeHeader(h); norm == "row_type" || norm == "type" {
			hasRowType = true
			break
		}
	}

	report := &domain.ParseReport{Filename: filename}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", report.TotalRows+2, err)
		}

		report.TotalRows++
		row := newRowView(headers, record)

		errorText := ""
		if hasErrorCol {
			errorText, _ = row.get(errorCol)
		}

		// rows with no result text and no type discriminator are successes
		if errorText == "" && !hasRowType {
			report.SuccessRows++
			continue
		}
		if errorText != "" && !isErrorRow(errorText) {
			report.SuccessRows++
			continue
		}
		if errorText == "" {
			report.SuccessRows++
			continue
		}

		report.ErrorRows++

		rowType, _ := row.get("row_type")
		if rowType == "" {
			rowType, _ = row.get("type")
		}

		report.Errors = append(report.Errors, extractRowErrors(row, rowType, errorText)...)
	}

	report.Partition()
	return report, nil
}

package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"adspilot/internal/domain"
)

// columnPriority is the platform editor's import contract: campaign fields,
// ad-group fields, keyword fields, ad fields, then the numbered headline and
// description columns in order. Unanticipated columns sort alphabetically
// after these.
var columnPriority = buildColumnPriority()

func buildColumnPriority() []string {
	priority := []string{
		"Campaign", "Campaign status", "Campaign type",
		"Networks", "Budget", "Bid strategy type",
		"Start date", "End date", "Location", "Language",
		"EU political ads",
		"Ad group", "Ad group status",
		"Keyword", "Keyword match type",
		"Ad type", "Ad status", "Final URL",
	}
	for i := 1; i <= 15; i++ {
		priority = append(priority, fmt.Sprintf("Headline %d", i))
	}
	for i := 1; i <= 4; i++ {
		priority = append(priority, fmt.Sprintf("Description %d", i))
	}
	return priority
}

// normalizeMatchType strips a trailing "match" suffix; the editor expects
// bare "Broad"/"Phrase"/"Exact".
func normalizeMatchType(matchType string) string {
	mt := strings.ReplaceAll(matchType, " match", "")
	return strings.ReplaceAll(mt, " Match", "")
}

// configOr returns val, or fallback when val is blank.
func configOr(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

// BuildCampaignRows assembles the output table for one campaign: one campaign
// row, one ad-group row, one keyword row per keyword (capped at 10), and one
// responsive search ad row. The editor infers the row kind from which columns
// are populated, so no row carries a row-type column.
func BuildCampaignRows(content *domain.CampaignContent, cfg *domain.CampaignConfig, businessName, siteURL string, now time.Time) []domain.CampaignRow {
	campaignName := businessName + " - Search Campaign"
	adGroupName := businessName + " - Main"

	days, err := strconv.Atoi(strings.TrimSpace(cfg.CampaignDays))
	if err != nil || days <= 0 {
		days = 7
	}
	startDate := now.Format("2006-01-02")
	endDate := now.AddDate(0, 0, days).Format("2006-01-02")

	rows := make([]domain.CampaignRow, 0, len(content.Keywords)+3)

	rows = append(rows, domain.CampaignRow{
		"Campaign":          campaignName,
		"Campaign status":   "Enabled",
		"Campaign type":     "Search",
		"Networks":          configOr(cfg.Networks, "Google Search"),
		"Budget":            configOr(cfg.Budget, "10"),
		"Bid strategy type": configOr(cfg.BidStrategy, "Maximize Conversions"),
		"Start date":        startDate,
		"End date":          endDate,
		"Location":          configOr(cfg.TargetCountry, "United States"),
		"Language":          configOr(cfg.TargetLanguage, "en"),
		"EU political ads":  configOr(cfg.EUPoliticalAds, "No"),
	})

	rows = append(rows, domain.CampaignRow{
		"Campaign":        campaignName,
		"Ad group":        adGroupName,
		"Ad group status": "Enabled",
	})

	matchType := normalizeMatchType(configOr(cfg.MatchType, "Broad match"))
	keywords := content.Keywords
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	for _, kw := range keywords {
		rows = append(rows, domain.CampaignRow{
			"Campaign":           campaignName,
			"Ad group":           adGroupName,
			"Keyword":            kw,
			"Keyword match type": matchType,
		})
	}

	finalURL := siteURL
	if !strings.HasPrefix(finalURL, "http") {
		finalURL = "https://" + finalURL
	}
	adRow := domain.CampaignRow{
		"Campaign":  campaignName,
		"Ad group":  adGroupName,
		"Ad type":   "Responsive search ad",
		"Ad status": "Enabled",
		"Final URL": finalURL,
	}
	headlines := content.Headlines
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}
	for i, h := range headlines {
		adRow[fmt.Sprintf("Headline %d", i+1)] = truncateAtWord(h, maxHeadlineLen)
	}
	descriptions := content.Descriptions
	if len(descriptions) > maxDescriptions {
		descriptions = descriptions[:maxDescriptions]
	}
	for i, d := range descriptions {
		adRow[fmt.Sprintf("Description %d", i+1)] = truncateAtWord(d, maxDescriptionLen)
	}
	rows = append(rows, adRow)

	return rows
}

// OrderColumns returns the header for a row set: priority columns that appear
// in any row, in contract order, followed by leftovers sorted alphabetically.
func OrderColumns(rows []domain.CampaignRow) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			present[col] = true
		}
	}

	columns := make([]string, 0, len(present))
	for _, col := range columnPriority {
		if present[col] {
			columns = append(columns, col)
			delete(present, col)
		}
	}

	extra := make([]string, 0, len(present))
	for col := range present {
		extra = append(extra, col)
	}
	sort.Strings(extra)

	return append(columns, extra...)
}

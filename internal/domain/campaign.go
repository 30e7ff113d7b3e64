package domain

// CampaignConfig is the campaign-level configuration fetched from the backend
// sheet. Values arrive as strings; consumers apply defaults for blanks.
type CampaignConfig struct {
	Budget         string `json:"budget"`
	BidStrategy    string `json:"bid_strategy"`
	Networks       string `json:"networks"`
	TargetCountry  string `json:"target_country"`
	TargetLanguage string `json:"target_language"`
	EUPoliticalAds string `json:"eu_political_ads"`
	MatchType      string `json:"keyword_match_type"`
	CampaignDays   string `json:"campaign_days"`
}

// GenerationResult is the outcome of one campaign assembly run.
type GenerationResult struct {
	Success         bool              `json:"success"`
	Filepath        string            `json:"filepath"`
	RemovedKeywords []RemovedKeyword  `json:"removed_keywords"`
	Stats           map[string]string `json:"stats"`
}

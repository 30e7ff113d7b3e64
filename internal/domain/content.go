package domain

// ContentDraft is the raw AI-generated campaign content before filtering.
type ContentDraft struct {
	Keywords     []string `json:"keywords"`
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
}

// CampaignContent is the working record mutated across the
// filter -> validate -> backfill stages of one assembly run.
type CampaignContent struct {
	Keywords     []string
	Headlines    []string
	Descriptions []string
}

// CampaignRow maps an output column name to its value. The platform editor
// infers the row kind from which columns are populated; no row carries an
// explicit row-type column.
type CampaignRow map[string]string

// Site is one target site from the backend site list.
type Site struct {
	URL          string `json:"url"`
	BusinessName string `json:"business_name"`
	Status       string `json:"status"`
}

package domain

import "context"

// interface for the remote spreadsheet backend
type BackendClient interface {
	GetSites(ctx context.Context) ([]Site, error)
	GetConfig(ctx context.Context) (*CampaignConfig, error)
	GetBanned(ctx context.Context) ([]string, error)
	GetBannedDomains(ctx context.Context) ([]string, error)
	GetVersion(ctx context.Context) (string, error)
	GetAllStats(ctx context.Context) (map[string]any, error)
	GetFarmerStats(ctx context.Context, farmer string) (map[string]any, error)
	LogGeneration(ctx context.Context, farmer, siteURL string) error
	SubmitErrors(ctx context.Context, farmer string, removed []RemovedKeyword) error
	SubmitAdErrors(ctx context.Context, farmer string, items []SubmissionItem) error
	ClearCache()
}

// interface for the AI content generator
type ContentGenerator interface {
	GenerateContent(ctx context.Context, siteURL, businessName string) (*ContentDraft, error)
}

package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"adspilot/internal/domain"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"
)

// AssemblyService runs the assembly pipeline: deny-list gate, content
// generation, filtering and validation, row assembly, and the CSV write.
type AssemblyService struct {
	backend   domain.BackendClient
	generator domain.ContentGenerator
	logger    *logger.Logger
	metrics   *metrics.Metrics
	outputDir string
}

func NewAssemblyService(backend domain.BackendClient, generator domain.ContentGenerator, logger *logger.Logger, metrics *metrics.Metrics, outputDir string) *AssemblyService {
	return &AssemblyService{
		backend:   backend,
		generator: generator,
		logger:    logger,
		metrics:   metrics,
		outputDir: outputDir,
	}
}

// GenerateCampaign builds one campaign file for a target site. The whole run
// is one unit of work: one request in, one file out.
func (s *AssemblyService) GenerateCampaign(ctx context.Context, siteURL, businessName, farmer string) (*domain.GenerationResult, error) {
	start := time.Now()
	log := s.logger.WithContext(ctx)
	log.WithFields(map[string]any{
		"site_url": siteURL,
		"business": businessName,
	}).Info("Starting campaign generation")

	cfg, banned, bannedDomains, err := s.fetchInputs(ctx)
	if err != nil {
		s.metrics.RecordGenerationJob("failed", "fetch", time.Since(start))
		return nil, fmt.Errorf("failed to fetch generation inputs: %w", err)
	}

	// hard gate before any generation attempt
	if IsDomainBanned(siteURL, bannedDomains) {
		s.metrics.RecordGenerationJob("failed", "domain_gate", time.Since(start))
		return nil, fmt.Errorf("%w: %s", domain.ErrBannedDomain, siteURL)
	}

	draft, err := s.generator.GenerateContent(ctx, siteURL, businessName)
	if err != nil {
		s.metrics.RecordGenerationJob("failed", "generate", time.Since(start))
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	content := &domain.CampaignContent{
		Keywords:     draft.Keywords,
		Headlines:    ValidateHeadlines(draft.Headlines),
		Descriptions: ValidateDescriptions(draft.Descriptions),
	}

	originalCount := len(content.Keywords)
	filtered, removed := FilterKeywords(content.Keywords, banned)
	content.Keywords = filtered
	s.metrics.RecordKeywordsFiltered("kept", len(filtered))
	s.metrics.RecordKeywordsFiltered("removed", len(removed))

	removedKeywords := make([]domain.RemovedKeyword, 0, len(removed))
	for _, kw := range removed {
		removedKeywords = append(removedKeywords, domain.RemovedKeyword{
			Value:  kw,
			Type:   "keyword",
			Reason: "Generic",
		})
	}

	log.WithFields(map[string]any{
		"keywords_before": originalCount,
		"keywords_after":  len(content.Keywords),
		"removed":         len(removed),
	}).Info("Keywords filtered against deny-list")

	// removed keywords go to the moderation queue, best effort
	if len(removedKeywords) > 0 {
		if err := s.backend.SubmitErrors(ctx, farmer, removedKeywords); err != nil {
			log.WithError(err).Warn("Failed to submit removed keywords for moderation")
		}
	}

	content.Keywords = BackfillKeywords(content.Keywords, businessName)
	content.Headlines = BackfillHeadlines(content.Headlines, businessName)
	content.Descriptions = BackfillDescriptions(content.Descriptions, businessName)

	now := time.Now()
	rows := BuildCampaignRows(content, cfg, businessName, siteURL, now)
	path := filepath.Join(s.outputDir, CampaignFilename(businessName, now))

	if err := WriteCampaignCSV(path, rows); err != nil {
		s.metrics.RecordGenerationJob("failed", "write", time.Since(start))
		return nil, fmt.Errorf("failed to write campaign file: %w", err)
	}

	result := &domain.GenerationResult{
		Success:         true,
		Filepath:        path,
		RemovedKeywords: removedKeywords,
		Stats: map[string]string{
			"keywords":     fmt.Sprintf("%d", len(content.Keywords)),
			"headlines":    fmt.Sprintf("%d", len(content.Headlines)),
			"descriptions": fmt.Sprintf("%d", len(content.Descriptions)),
			"removed":      fmt.Sprintf("%d", len(removed)),
			"campaign":     businessName + " - Search Campaign",
			"dates":        now.Format("2006-01-02") + " -> " + rows[0]["End date"],
		},
	}

	// generation logging is best-effort; a failure never fails the pipeline
	if err := s.backend.LogGeneration(ctx, farmer, siteURL); err != nil {
		log.WithError(err).Warn("Failed to log generation to backend")
		result.Stats["warning"] = "generation not logged to backend"
	}

	s.metrics.RecordGenerationJob("success", "complete", time.Since(start))
	log.WithFields(map[string]any{
		"filepath": path,
		"duration": time.Since(start),
	}).Info("Campaign generation completed")

	return result, nil
}

// fetchInputs fetches campaign config and both deny-lists concurrently.
func (s *AssemblyService) fetchInputs(ctx context.Context) (*domain.CampaignConfig, []string, []string, error) {
	var (
		cfg           *domain.CampaignConfig
		banned        []string
		bannedDomains []string
		cfgErr        error
		bannedErr     error
		domainsErr    error
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		cfg, cfgErr = s.backend.GetConfig(ctx)
	}()
	go func() {
		defer wg.Done()
		banned, bannedErr = s.backend.GetBanned(ctx)
	}()
	go func() {
		defer wg.Done()
		bannedDomains, domainsErr = s.backend.GetBannedDomains(ctx)
	}()

	wg.Wait()

	if cfgErr != nil {
		return nil, nil, nil, fmt.Errorf("campaign config: %w", cfgErr)
	}
	if bannedErr != nil {
		return nil, nil, nil, fmt.Errorf("denied keywords: %w", bannedErr)
	}
	if domainsErr != nil {
		return nil, nil, nil, fmt.Errorf("denied domains: %w", domainsErr)
	}

	return cfg, banned, bannedDomains, nil
}

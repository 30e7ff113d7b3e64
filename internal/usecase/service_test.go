package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"adspilot/internal/domain"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.New()

func testLogger() *logger.Logger {
	return logger.New("error")
}

// fakeBackend is an in-memory BackendClient for service tests.
type fakeBackend struct {
	config        *domain.CampaignConfig
	banned        []string
	bannedDomains []string
	submitted     [][]domain.SubmissionItem
	moderation    []domain.RemovedKeyword
	logged        []string

	configErr error
	submitErr error
	logErr    error
}

func (f *fakeBackend) GetSites(ctx context.Context) ([]domain.Site, error) { return nil, nil }

func (f *fakeBackend) GetConfig(ctx context.Context) (*domain.CampaignConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	if f.config == nil {
		return &domain.CampaignConfig{}, nil
	}
	return f.config, nil
}

func (f *fakeBackend) GetBanned(ctx context.Context) ([]string, error) { return f.banned, nil }

func (f *fakeBackend) GetBannedDomains(ctx context.Context) ([]string, error) {
	return f.bannedDomains, nil
}

func (f *fakeBackend) GetVersion(ctx context.Context) (string, error) { return "test", nil }

func (f *fakeBackend) GetAllStats(ctx context.Context) (map[string]any, error) { return nil, nil }

func (f *fakeBackend) GetFarmerStats(ctx context.Context, farmer string) (map[string]any, error) {
	return nil, nil
}

func (f *fakeBackend) LogGeneration(ctx context.Context, farmer, siteURL string) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.logged = append(f.logged, farmer+"|"+siteURL)
	return nil
}

func (f *fakeBackend) SubmitErrors(ctx context.Context, farmer string, removed []domain.RemovedKeyword) error {
	f.moderation = append(f.moderation, removed...)
	return nil
}

func (f *fakeBackend) SubmitAdErrors(ctx context.Context, farmer string, items []domain.SubmissionItem) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, items)
	return nil
}

func (f *fakeBackend) ClearCache() {}

// fakeGenerator is an in-memory ContentGenerator.
type fakeGenerator struct {
	draft *domain.ContentDraft
	err   error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, siteURL, businessName string) (*domain.ContentDraft, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.draft, nil
}

const resultsCSV = "Row Type,Keyword,Results\n" +
	"Keyword,yoga classes,Error: policy violation details\n" +
	"Keyword,yoga classes,Error: policy violation details\n" +
	"Keyword,gym membership,Added successfully\n"

func TestFeedbackService_SubmitFile(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewFeedbackService(backend, testLogger(), testMetrics)

	report, items, err := svc.SubmitFile(context.Background(), "results.csv", strings.NewReader(resultsCSV), "alex", domain.ActionPending)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.ErrorRows)
	require.Len(t, items, 1, "duplicate rows must collapse into one item")
	assert.Equal(t, "yoga classes", items[0].Value)

	require.Len(t, backend.submitted, 1)
	assert.Equal(t, items, backend.submitted[0])
}

func TestFeedbackService_SubmitFile_BackendFailure(t *testing.T) {
	backend := &fakeBackend{submitErr: domain.ErrBackendUnavailable}
	svc := NewFeedbackService(backend, testLogger(), testMetrics)

	_, _, err := svc.SubmitFile(context.Background(), "results.csv", strings.NewReader(resultsCSV), "alex", domain.ActionPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Empty(t, backend.submitted, "all-or-nothing: no item is marked sent on failure")
}

func TestFeedbackService_SubmitFile_NothingToSubmit(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewFeedbackService(backend, testLogger(), testMetrics)

	clean := "Row Type,Keyword,Results\nKeyword,yoga,Added successfully\n"
	report, items, err := svc.SubmitFile(context.Background(), "results.csv", strings.NewReader(clean), "alex", domain.ActionPending)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SuccessRows)
	assert.Empty(t, items)
	assert.Empty(t, backend.submitted, "empty batches skip the backend call")
}

func healthyDraft() *domain.ContentDraft {
	return &domain.ContentDraft{
		Keywords:  []string{"yoga classes", "gym membership", "personal training", "spin classes", "pilates studio"},
		Headlines: []string{"Join Iron Temple", "Train With Experts", "Strong Every Day", "Your Fitness Home"},
		Descriptions: []string{
			"Train with certified coaches and flexible membership plans that fit your life.",
			"Join a supportive community with personal and group training available daily.",
		},
	}
}

func TestAssemblyService_GenerateCampaign(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{banned: []string{"spin"}}
	svc := NewAssemblyService(backend, &fakeGenerator{draft: healthyDraft()}, testLogger(), testMetrics, dir)

	result, err := svc.GenerateCampaign(context.Background(), "irontemple.com", "Iron Temple", "alex")
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.FileExists(t, result.Filepath)
	data, err := os.ReadFile(result.Filepath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Iron Temple - Search Campaign")
	assert.NotContains(t, string(data), "spin classes", "denied keywords must not reach the output")

	require.Len(t, result.RemovedKeywords, 1)
	assert.Equal(t, "spin classes", result.RemovedKeywords[0].Value)
	assert.Equal(t, "Generic", result.RemovedKeywords[0].Reason)
	assert.Equal(t, result.RemovedKeywords, backend.moderation, "removed keywords reach the moderation queue")

	require.Len(t, backend.logged, 1)
	assert.Equal(t, "alex|irontemple.com", backend.logged[0])
}

func TestAssemblyService_BannedDomain(t *testing.T) {
	backend := &fakeBackend{bannedDomains: []string{"irontemple.com"}}
	generator := &fakeGenerator{err: errors.New("must not be called")}
	svc := NewAssemblyService(backend, generator, testLogger(), testMetrics, t.TempDir())

	_, err := svc.GenerateCampaign(context.Background(), "https://www.irontemple.com", "Iron Temple", "alex")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBannedDomain)
}

func TestAssemblyService_GeneratorFailure(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewAssemblyService(backend, &fakeGenerator{err: errors.New("quota exhausted")}, testLogger(), testMetrics, t.TempDir())

	_, err := svc.GenerateCampaign(context.Background(), "irontemple.com", "Iron Temple", "alex")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestAssemblyService_FetchFailure(t *testing.T) {
	backend := &fakeBackend{configErr: domain.ErrBackendUnavailable}
	svc := NewAssemblyService(backend, &fakeGenerator{draft: healthyDraft()}, testLogger(), testMetrics, t.TempDir())

	_, err := svc.GenerateCampaign(context.Background(), "irontemple.com", "Iron Temple", "alex")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestAssemblyService_LogFailureIsNonFatal(t *testing.T) {
	backend := &fakeBackend{logErr: errors.New("sheet quota exceeded")}
	svc := NewAssemblyService(backend, &fakeGenerator{draft: healthyDraft()}, testLogger(), testMetrics, t.TempDir())

	result, err := svc.GenerateCampaign(context.Background(), "irontemple.com", "Iron Temple", "alex")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Stats, "warning")
}

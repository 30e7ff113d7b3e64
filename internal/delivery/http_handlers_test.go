package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adspilot/internal/domain"
	"adspilot/internal/usecase"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.New()

type stubBackend struct {
	sites     []domain.Site
	submitted int
}

func (s *stubBackend) GetSites(ctx context.Context) ([]domain.Site, error) { return s.sites, nil }
func (s *stubBackend) GetConfig(ctx context.Context) (*domain.CampaignConfig, error) {
	return &domain.CampaignConfig{}, nil
}
func (s *stubBackend) GetBanned(ctx context.Context) ([]string, error)        { return nil, nil }
func (s *stubBackend) GetBannedDomains(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubBackend) GetVersion(ctx context.Context) (string, error)         { return "test", nil }
func (s *stubBackend) GetAllStats(ctx context.Context) (map[string]any, error) {
	return map[string]any{"generations": 42}, nil
}
func (s *stubBackend) GetFarmerStats(ctx context.Context, farmer string) (map[string]any, error) {
	return map[string]any{"farmer": farmer}, nil
}
func (s *stubBackend) LogGeneration(ctx context.Context, farmer, siteURL string) error { return nil }
func (s *stubBackend) SubmitErrors(ctx context.Context, farmer string, removed []domain.RemovedKeyword) error {
	return nil
}
func (s *stubBackend) SubmitAdErrors(ctx context.Context, farmer string, items []domain.SubmissionItem) error {
	s.submitted += len(items)
	return nil
}
func (s *stubBackend) ClearCache() {}

type stubGenerator struct{}

func (stubGenerator) GenerateContent(ctx context.Context, siteURL, businessName string) (*domain.ContentDraft, error) {
	return &domain.ContentDraft{
		Keywords:  []string{"yoga classes"},
		Headlines: []string{"Join Today Now"},
		Descriptions: []string{
			"Train with certified coaches and flexible membership plans today.",
		},
	}, nil
}

func newTestRouter(t *testing.T, backend *stubBackend) http.Handler {
	t.Helper()
	log := logger.New("error")

	feedback := usecase.NewFeedbackService(backend, log, testMetrics)
	assembly := usecase.NewAssemblyService(backend, stubGenerator{}, log, testMetrics, t.TempDir())
	handlers := NewHTTPHandlers(feedback, assembly, backend, log, testMetrics)
	return NewHTTPRouter(handlers, log, testMetrics).SetupRoutes()
}

func multipartUpload(t *testing.T, fields map[string]string, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", "results.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(fileContent))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

const uploadCSV = "Row Type,Keyword,Results\n" +
	"Keyword,yoga classes,Error: policy violation details\n" +
	"Keyword,gym membership,Added successfully\n"

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestParseFeedbackEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	body, contentType := multipartUpload(t, nil, uploadCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback/parse", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Report  domain.ParseReport `json:"report"`
		Summary string             `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Report.TotalRows)
	assert.Equal(t, 1, resp.Report.ErrorRows)
	assert.Contains(t, resp.Summary, "Total rows: 2")
}

func TestParseFeedbackEndpoint_MissingFile(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback/parse", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request_id")
}

func TestSubmitFeedbackEndpoint(t *testing.T) {
	backend := &stubBackend{}
	router := newTestRouter(t, backend)

	body, contentType := multipartUpload(t, map[string]string{"farmer": "alex", "action": "auto_ban"}, uploadCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback/submit", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, backend.submitted)
}

func TestSubmitFeedbackEndpoint_RequiresFarmer(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	body, contentType := multipartUpload(t, nil, uploadCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback/submit", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateCampaignEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	payload := `{"site_url": "irontemple.com", "business_name": "Iron Temple", "farmer": "alex"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result domain.GenerationResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Result.Success)
	assert.FileExists(t, resp.Result.Filepath)
}

func TestGenerateCampaignEndpoint_ValidatesBody(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/generate", strings.NewReader(`{"farmer": "alex"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSitesEndpoint(t *testing.T) {
	backend := &stubBackend{sites: []domain.Site{{URL: "irontemple.com", BusinessName: "Iron Temple"}}}
	router := newTestRouter(t, backend)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sites", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Iron Temple")
}

func TestFarmerStatsEndpoint_RequiresFarmer(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats/farmer", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

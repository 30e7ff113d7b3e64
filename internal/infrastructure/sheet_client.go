package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"adspilot/internal/domain"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"

	"golang.org/x/time/rate"
)

// implements domain.BackendClient against the Apps-Script spreadsheet backend
type SheetClient struct {
	client      *http.Client
	scriptURL   string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter

	cacheTTL time.Duration
	mu       sync.Mutex
	cache    map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	fetched time.Time
}

// status envelope every backend reply may carry
type apiStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// creates a new sheet backend client
func NewSheetClient(scriptURL string, timeout, cacheTTL time.Duration, ratePerSecond int, logger *logger.Logger, metrics *metrics.Metrics) *SheetClient {
	return &SheetClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		scriptURL:   strings.TrimRight(scriptURL, "/"),
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		cacheTTL:    cacheTTL,
		cache:       make(map[string]cacheEntry),
	}
}

// performs a GET action against the backend
func (c *SheetClient) get(ctx context.Context, action string, params url.Values) ([]byte, error) {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "rate_limit")
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	q := url.Values{}
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.scriptURL+"?"+q.Encode(), nil)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "network_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordExternalAPICall("sheet", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "read_body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var status apiStatus
	if err := json.Unmarshal(body, &status); err == nil && status.Status == "error" {
		c.metrics.RecordExternalAPIFailure("sheet", "backend_error")
		return nil, fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, status.Message)
	}

	c.metrics.RecordExternalAPICall("sheet", "success", duration)
	return body, nil
}

// getCached wraps get with the TTL read cache
func (c *SheetClient) getCached(ctx context.Context, action string, params url.Values) ([]byte, error) {
	key := action + "?" + params.Encode()

	c.mu.Lock()
	entry, ok := c.cache[key]
	c.mu.Unlock()
	if ok && time.Since(entry.fetched) < c.cacheTTL {
		return entry.body, nil
	}

	body, err := c.get(ctx, action, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{body: body, fetched: time.Now()}
	c.mu.Unlock()

	return body, nil
}

// performs a POST action against the backend
func (c *SheetClient) post(ctx context.Context, payload map[string]any) ([]byte, error) {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "rate_limit")
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "json_marshal")
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.scriptURL, bytes.NewReader(body))
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "network_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordExternalAPICall("sheet", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("sheet", "read_body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var status apiStatus
	if err := json.Unmarshal(respBody, &status); err == nil && status.Status == "error" {
		c.metrics.RecordExternalAPIFailure("sheet", "backend_error")
		return nil, fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, status.Message)
	}

	c.metrics.RecordExternalAPICall("sheet", "success", duration)
	return respBody, nil
}

// GetSites fetches the target site list.
func (c *SheetClient) GetSites(ctx context.Context) ([]domain.Site, error) {
	body, err := c.getCached(ctx, "get_sites", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Sites []domain.Site `json:"sites"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse site list: %w", err)
	}
	return payload.Sites, nil
}

// GetConfig fetches the campaign configuration.
func (c *SheetClient) GetConfig(ctx context.Context) (*domain.CampaignConfig, error) {
	body, err := c.getCached(ctx, "get_config", nil)
	if err != nil {
		return nil, err
	}

	var cfg domain.CampaignConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse campaign config: %w", err)
	}
	return &cfg, nil
}

// GetBanned fetches the denied-keyword list.
func (c *SheetClient) GetBanned(ctx context.Context) ([]string, error) {
	body, err := c.getCached(ctx, "get_banned", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Banned []string `json:"banned"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse denied keywords: %w", err)
	}
	return payload.Banned, nil
}

// GetBannedDomains fetches the denied-domain list.
func (c *SheetClient) GetBannedDomains(ctx context.Context) ([]string, error) {
	body, err := c.getCached(ctx, "get_banned_domains", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		BannedDomains []string `json:"banned_domains"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse denied domains: %w", err)
	}
	return payload.BannedDomains, nil
}

// GetVersion fetches the backend version string. Never cached.
func (c *SheetClient) GetVersion(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "get_version", nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse version: %w", err)
	}
	return payload.Version, nil
}

// GetAllStats fetches aggregate statistics. Never cached.
func (c *SheetClient) GetAllStats(ctx context.Context) (map[string]any, error) {
	body, err := c.get(ctx, "get_all_stats", nil)
	if err != nil {
		return nil, err
	}

	var stats map[string]any
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}
	return stats, nil
}

// GetFarmerStats fetches per-farmer statistics. Never cached.
func (c *SheetClient) GetFarmerStats(ctx context.Context, farmer string) (map[string]any, error) {
	params := url.Values{}
	params.Set("farmer", farmer)

	body, err := c.get(ctx, "get_farmer_stats", params)
	if err != nil {
		return nil, err
	}

	var stats map[string]any
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse farmer stats: %w", err)
	}
	return stats, nil
}

// LogGeneration records one campaign generation on the backend.
func (c *SheetClient) LogGeneration(ctx context.Context, farmer, siteURL string) error {
	_, err := c.post(ctx, map[string]any{
		"action":   "log_generation",
		"farmer":   farmer,
		"site_url": siteURL,
	})
	return err
}

// SubmitErrors sends deny-filtered keywords to the moderation queue.
func (c *SheetClient) SubmitErrors(ctx context.Context, farmer string, removed []domain.RemovedKeyword) error {
	_, err := c.post(ctx, map[string]any{
		"action": "submit_errors",
		"farmer": farmer,
		"errors": removed,
	})
	return err
}

// SubmitAdErrors sends one batch of rejected entities for self-learning.
// The batch is a single POST; on error no item is marked sent.
func (c *SheetClient) SubmitAdErrors(ctx context.Context, farmer string, items []domain.SubmissionItem) error {
	_, err := c.post(ctx, map[string]any{
		"action": "submit_ad_errors",
		"farmer": farmer,
		"errors": items,
	})
	return err
}

// TestConnection probes the backend and reports a human-readable outcome.
func (c *SheetClient) TestConnection(ctx context.Context) (bool, string) {
	version, err := c.GetVersion(ctx)
	if err != nil {
		return false, err.Error()
	}
	if version != "" {
		return true, fmt.Sprintf("Connected, backend version %s", version)
	}
	return true, "Connected"
}

// ClearCache drops all cached GET responses.
func (c *SheetClient) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

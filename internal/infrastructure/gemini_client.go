package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adspilot/internal/domain"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// implements domain.ContentGenerator against the Gemini API
type GeminiClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// creates a new Gemini content generator
func NewGeminiClient(apiKey, model string, timeout time.Duration, logger *logger.Logger, metrics *metrics.Metrics) *GeminiClient {
	return &GeminiClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: geminiBaseURL,
		apiKey:  apiKey,
		model:   model,
		logger:  logger,
		metrics: metrics,
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent asks the model for campaign keywords, headlines and
// descriptions for one site, returned as a raw draft the caller validates.
func (c *GeminiClient) GenerateContent(ctx context.Context, siteURL, businessName string) (*domain.ContentDraft, error) {
	start := time.Now()

	prompt := buildContentPrompt(siteURL, businessName)
	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.5,
			MaxOutputTokens: 2000,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("gemini", "json_marshal")
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		c.metrics.RecordExternalAPIFailure("gemini", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("gemini", "network_error")
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordExternalAPICall("gemini", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, fmt.Errorf("%w: model API returned status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("gemini", "read_body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.metrics.RecordExternalAPIFailure("gemini", "json_parse")
		return nil, fmt.Errorf("%w: malformed model response: %v", domain.ErrGenerationFailed, err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		c.metrics.RecordExternalAPIFailure("gemini", "empty_response")
		return nil, fmt.Errorf("%w: model returned no candidates", domain.ErrGenerationFailed)
	}

	draft, err := parseContentDraft(parsed.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("gemini", "content_parse")
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	c.metrics.RecordExternalAPICall("gemini", "success", duration)
	c.logger.WithFields(map[string]interface{}{
		"site_url":     siteURL,
		"keywords":     len(draft.Keywords),
		"headlines":    len(draft.Headlines),
		"descriptions": len(draft.Descriptions),
	}).Info("Generated campaign content")

	return draft, nil
}

// parseContentDraft extracts the JSON draft from the model reply, tolerating
// markdown code fences around the payload.
func parseContentDraft(text string) (*domain.ContentDraft, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var draft domain.ContentDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return nil, fmt.Errorf("model reply is not valid JSON: %v", err)
	}
	if len(draft.Keywords) == 0 || len(draft.Headlines) == 0 || len(draft.Descriptions) == 0 {
		return nil, fmt.Errorf("model reply is missing keywords, headlines or descriptions")
	}
	return &draft, nil
}

func buildContentPrompt(siteURL, businessName string) string {
	return fmt.Sprintf(`You are a Google Ads specialist for fitness businesses.
Create search campaign content for the business %q (website: %s).

Return ONLY a JSON object, no explanations, in exactly this shape:
{
  "keywords": ["..."],
  "headlines": ["..."],
  "descriptions": ["..."]
}

Requirements:
- 8-10 search keywords with local buying intent
- 8 headlines, each 30 characters or fewer
- 2 descriptions, each 60-90 characters
- no superlatives or claims like "best", "cheap", "free", "#1", "guaranteed"
- plain language a gym member would actually search for`, businessName, siteURL)
}

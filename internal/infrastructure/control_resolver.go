package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"adspilot/pkg/keycodec"
	"adspilot/pkg/logger"
)

// ControlSettings are the remotely managed connection settings.
type ControlSettings struct {
	ScriptURL   string `json:"script_url"`
	GeminiKey   string `json:"gemini_key"`
	GeminiModel string `json:"gemini_model"`
	// Source records where the settings came from: "remote", "cached" or "fallback".
	Source string `json:"-"`
}

type controlDocument struct {
	ScriptURL    string `json:"script_url"`
	GeminiKey    string `json:"gemini_key"`
	GeminiKeyEnc string `json:"gemini_key_enc"`
	GeminiModel  string `json:"gemini_model"`
}

// ControlResolver fetches connection settings from a remote control document,
// falling back to the last good copy and then to configured defaults.
type ControlResolver struct {
	client   *http.Client
	gistURL  string
	fallback ControlSettings
	logger   *logger.Logger

	mu     sync.Mutex
	cached *ControlSettings
}

// creates a new control-plane resolver
func NewControlResolver(gistURL string, timeout time.Duration, fallback ControlSettings, logger *logger.Logger) *ControlResolver {
	return &ControlResolver{
		client:   &http.Client{Timeout: timeout},
		gistURL:  gistURL,
		fallback: fallback,
		logger:   logger,
	}
}

// Resolve returns the current settings. A remote fetch failure falls back to
// the last good copy, then to the configured defaults; Resolve never fails.
func (r *ControlResolver) Resolve(ctx context.Context) ControlSettings {
	if r.gistURL != "" {
		settings, err := r.fetch(ctx)
		if err == nil {
			r.mu.Lock()
			r.cached = settings
			r.mu.Unlock()
			settings.Source = "remote"
			return *settings
		}
		r.logger.WithField("error", err.Error()).Warn("Control document fetch failed")
	}

	r.mu.Lock()
	cached := r.cached
	r.mu.Unlock()
	if cached != nil {
		settings := *cached
		settings.Source = "cached"
		return settings
	}

	settings := r.fallback
	settings.Source = "fallback"
	return settings
}

func (r *ControlResolver) fetch(ctx context.Context) (*ControlSettings, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.gistURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch control document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("control document returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read control document: %w", err)
	}

	var doc controlDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed control document: %w", err)
	}

	settings := &ControlSettings{
		ScriptURL:   doc.ScriptURL,
		GeminiModel: doc.GeminiModel,
	}
	switch {
	case doc.GeminiKeyEnc != "":
		settings.GeminiKey = keycodec.SmartDecode(doc.GeminiKeyEnc)
	case doc.GeminiKey != "":
		settings.GeminiKey = keycodec.SmartDecode(doc.GeminiKey)
	}

	// missing fields inherit the configured defaults
	if settings.ScriptURL == "" {
		settings.ScriptURL = r.fallback.ScriptURL
	}
	if settings.GeminiKey == "" {
		settings.GeminiKey = r.fallback.GeminiKey
	}
	if settings.GeminiModel == "" {
		settings.GeminiModel = r.fallback.GeminiModel
	}

	return settings, nil
}

package delivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"adspilot/internal/domain"
	"adspilot/internal/usecase"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handles HTTP requests
type HTTPHandlers struct {
	feedbackService *usecase.FeedbackService
	assemblyService *usecase.AssemblyService
	backend         domain.BackendClient
	logger          *logger.Logger
	metrics         *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	feedbackService *usecase.FeedbackService,
	assemblyService *usecase.AssemblyService,
	backend domain.BackendClient,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		feedbackService: feedbackService,
		assemblyService: assemblyService,
		backend:         backend,
		logger:          logger,
		metrics:         metrics,
	}
}

// ParseFeedback parses an uploaded bulk-upload results file
func (h *HTTPHandlers) ParseFeedback(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/feedback/parse", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing file",
			"message":    "multipart field 'file' is required",
			"request_id": requestID,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/feedback/parse", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Unreadable file",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}
	defer file.Close()

	report, err := h.feedbackService.ParseFile(ctx, fileHeader.Filename, file)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoHeader) {
			status = http.StatusUnprocessableEntity
		}
		h.metrics.RecordHTTPRequest("POST", "/feedback/parse", strconv.Itoa(status), time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to parse results file")
		c.JSON(status, gin.H{
			"error":      "Parse failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/feedback/parse", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"summary":    usecase.FormatSummary(report),
		"request_id": requestID,
	})
}

// SubmitFeedback parses an uploaded results file and submits the
// deduplicated error batch to the backend
func (h *HTTPHandlers) SubmitFeedback(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	farmer := c.PostForm("farmer")
	if farmer == "" {
		h.metrics.RecordHTTPRequest("POST", "/feedback/submit", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing required parameter",
			"message":    "farmer field is required",
			"request_id": requestID,
		})
		return
	}

	action := domain.SubmissionAction(c.DefaultPostForm("action", string(domain.ActionPending)))
	if action != domain.ActionPending && action != domain.ActionAutoBan {
		h.metrics.RecordHTTPRequest("POST", "/feedback/submit", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid action",
			"message":    "action must be 'pending' or 'auto_ban'",
			"request_id": requestID,
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/feedback/submit", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing file",
			"message":    "multipart field 'file' is required",
			"request_id": requestID,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/feedback/submit", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Unreadable file",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}
	defer file.Close()

	report, items, err := h.feedbackService.SubmitFile(ctx, fileHeader.Filename, file, farmer, action)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrNoHeader):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrBackendUnavailable):
			status = http.StatusBadGateway
		}
		h.metrics.RecordHTTPRequest("POST", "/feedback/submit", strconv.Itoa(status), time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to submit error feedback")
		c.JSON(status, gin.H{
			"error":      "Submission failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/feedback/submit", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"submitted":  len(items),
		"items":      items,
		"request_id": requestID,
	})
}

// GenerateCampaign runs the full campaign assembly pipeline for one site
func (h *HTTPHandlers) GenerateCampaign(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	var req struct {
		SiteURL      string `json:"site_url" binding:"required"`
		BusinessName string `json:"business_name" binding:"required"`
		Farmer       string `json:"farmer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordHTTPRequest("POST", "/campaigns/generate", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	result, err := h.assemblyService.GenerateCampaign(ctx, req.SiteURL, req.BusinessName, req.Farmer)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrBannedDomain):
			status = http.StatusForbidden
		case errors.Is(err, domain.ErrGenerationFailed):
			status = http.StatusBadGateway
		case errors.Is(err, domain.ErrBackendUnavailable):
			status = http.StatusBadGateway
		}
		h.metrics.RecordHTTPRequest("POST", "/campaigns/generate", strconv.Itoa(status), time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Campaign generation failed")
		c.JSON(status, gin.H{
			"error":      "Generation failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("POST", "/campaigns/generate", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": requestID,
	})
}

// GetSites proxies the backend site list
func (h *HTTPHandlers) GetSites(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	sites, err := h.backend.GetSites(ctx)
	if err != nil {
		h.metrics.RecordHTTPRequest("GET", "/sites", "502", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to fetch site list")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Failed to fetch sites",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/sites", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"sites":      sites,
		"total":      len(sites),
		"request_id": requestID,
	})
}

// Sync drops the backend cache and refetches the working set
func (h *HTTPHandlers) Sync(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	h.backend.ClearCache()

	sites, err := h.backend.GetSites(ctx)
	if err != nil {
		h.metrics.RecordHTTPRequest("POST", "/sync", "502", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Sync failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Sync failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	// warm the remaining caches, best effort
	if _, err := h.backend.GetConfig(ctx); err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("Failed to refetch campaign config")
	}
	if _, err := h.backend.GetBanned(ctx); err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("Failed to refetch denied keywords")
	}
	if _, err := h.backend.GetBannedDomains(ctx); err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("Failed to refetch denied domains")
	}

	h.metrics.RecordHTTPRequest("POST", "/sync", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"message":    "Sync completed",
		"sites":      len(sites),
		"request_id": requestID,
	})
}

// GetAllStats proxies aggregate backend statistics
func (h *HTTPHandlers) GetAllStats(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	stats, err := h.backend.GetAllStats(ctx)
	if err != nil {
		h.metrics.RecordHTTPRequest("GET", "/stats", "502", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to fetch stats")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Failed to fetch stats",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/stats", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"request_id": requestID,
	})
}

// GetFarmerStats proxies per-farmer backend statistics
func (h *HTTPHandlers) GetFarmerStats(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()
	ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)

	farmer := c.Query("farmer")
	if farmer == "" {
		h.metrics.RecordHTTPRequest("GET", "/stats/farmer", "400", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing required parameter",
			"message":    "farmer parameter is required",
			"request_id": requestID,
		})
		return
	}

	stats, err := h.backend.GetFarmerStats(ctx, farmer)
	if err != nil {
		h.metrics.RecordHTTPRequest("GET", "/stats/farmer", "502", time.Since(start))
		h.logger.WithContext(ctx).WithError(err).Error("Failed to fetch farmer stats")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "Failed to fetch farmer stats",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	h.metrics.RecordHTTPRequest("GET", "/stats/farmer", "200", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"farmer":     farmer,
		"stats":      stats,
		"request_id": requestID,
	})
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()

	apiInfo := gin.H{
		"api_version": "v1",
		"service":     "Ads Pilot",
		"version":     "1.0.0",
		"description": "Campaign assembly and upload-feedback service for Google Ads bulk sheets",
		"endpoints": gin.H{
			"feedback": gin.H{
				"description": "Parse bulk-upload result files and feed rejections back to the deny-list",
				"methods":     []string{"POST"},
				"endpoints": gin.H{
					"parse": gin.H{
						"path":        "/api/v1/feedback/parse",
						"description": "Parse an uploaded results CSV into a structured error report",
						"parameters": gin.H{
							"file": "Required: multipart results file (.csv)",
						},
					},
					"submit": gin.H{
						"path":        "/api/v1/feedback/submit",
						"description": "Parse and submit the deduplicated error batch to the backend",
						"parameters": gin.H{
							"file":   "Required: multipart results file (.csv)",
							"farmer": "Required: account operator name",
							"action": "Optional: pending (default) or auto_ban",
						},
					},
				},
			},
			"campaigns": gin.H{
				"description": "Assemble campaign bulk-upload sheets",
				"methods":     []string{"POST"},
				"endpoints": gin.H{
					"generate": gin.H{
						"path":        "/api/v1/campaigns/generate",
						"description": "Generate, filter and write one campaign CSV for a site",
						"parameters": gin.H{
							"site_url":      "Required: site URL",
							"business_name": "Required: business name",
							"farmer":        "Optional: account operator name for generation logging",
						},
					},
				},
			},
			"sites": gin.H{
				"path":        "/api/v1/sites",
				"description": "Backend site list",
				"methods":     []string{"GET"},
			},
			"sync": gin.H{
				"path":        "/api/v1/sync",
				"description": "Clear the backend cache and refetch sites, config and deny-lists",
				"methods":     []string{"POST"},
			},
			"stats": gin.H{
				"description": "Backend statistics",
				"methods":     []string{"GET"},
				"endpoints": gin.H{
					"all": gin.H{
						"path": "/api/v1/stats",
					},
					"farmer": gin.H{
						"path":       "/api/v1/stats/farmer",
						"parameters": gin.H{"farmer": "Required: account operator name"},
					},
				},
			},
		},
		"request_id": requestID,
	}

	h.metrics.RecordHTTPRequest("GET", "/api/v1", "200", time.Since(start))
	c.JSON(http.StatusOK, apiInfo)
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	start := time.Now()
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	requestID := uuid.New().String()

	health := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "adspilot",
		"version":    "1.0.0",
		"request_id": requestID,
	}

	h.metrics.RecordHTTPRequest("GET", "/health", "200", time.Since(start))
	c.JSON(http.StatusOK, health)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/miniapptrack/attribution/internal/dto"
	"github.com/miniapptrack/attribution/internal/middleware"
	"github.com/miniapptrack/attribution/internal/service"
	"github.com/miniapptrack/attribution/pkg/logger"
	"github.com/miniapptrack/attribution/pkg/response"
)

// AnalyticsHandler handles campaign reporting HTTP requests
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	log       *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics service.AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

// Stats handles a campaign statistics query
// POST /api/v1/analytics
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	auth, ok := middleware.GetAuth(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized())
		return
	}

	var req dto.CampaignStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(validationDetails(err)))
		return
	}

	result, err := h.analytics.CampaignStats(c.Request.Context(), auth.TenantID, req.CampaignParameters)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("failed to compute campaign stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.InternalError())
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

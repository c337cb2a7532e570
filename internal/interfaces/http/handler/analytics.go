package handler

import (
	"github.com/gin-gonic/gin"

	appanalytics "github.com/quickdash/backend/internal/application/analytics"
)

// AnalyticsHandler exposes revenue rollups.
type AnalyticsHandler struct {
	BaseHandler
	service *appanalytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *appanalytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Revenue returns the revenue report for a lookback period.
// GET /api/v1/analytics/revenue?period=1d|7d|30d|90d
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	period := appanalytics.Period(c.DefaultQuery("period", string(appanalytics.Period7Days)))

	report, err := h.service.Revenue(c.Request.Context(), businessID, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

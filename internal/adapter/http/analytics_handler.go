package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

const defaultTopProducts = 5

type AnalyticsHandler struct {
	service interfaces.AnalyticsService
	logger  logger.Logger
}

func NewAnalyticsHandler(service interfaces.AnalyticsService, logger logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

// Revenue returns revenue per UTC day for ?period=daily|weekly|monthly.
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	points, err := h.service.Revenue(c.Request.Context(), scope, c.Query("period"))
	if err != nil {
		respondError(c, h.logger, "analytics_failed", err)
		return
	}

	out := make([]revenuePointResponse, len(points))
	for i, p := range points {
		out[i] = revenuePointResponse{Date: p.Date, Revenue: money(p.Revenue)}
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) OrderStats(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	stats, err := h.service.OrderStats(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, "analytics_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromOrderStats(stats))
}

func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	limit := defaultTopProducts
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(c, h.logger, "analytics_failed", domain.InvalidInputf("limit must be an integer"))
			return
		}
		limit = n
	}

	sales, err := h.service.TopProducts(c.Request.Context(), scope, limit)
	if err != nil {
		respondError(c, h.logger, "analytics_failed", err)
		return
	}

	out := make([]productSalesResponse, len(sales))
	for i, s := range sales {
		out[i] = productSalesResponse{Product: fromProduct(s.Product), TotalSold: s.TotalSold}
	}
	c.JSON(http.StatusOK, out)
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	stats, err := h.service.Dashboard(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, "analytics_failed", err)
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Orders:        fromOrderStats(stats.Orders),
		TotalRevenue:  money(stats.TotalRevenue),
		LowStockCount: stats.LowStockCount,
		CustomerCount: stats.CustomerCount,
	})
}

package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
)

type Handlers struct {
	Orders    *OrderHandler
	Products  *ProductHandler
	Customers *CustomerHandler
	Delivery  *DeliveryHandler
	Analytics *AnalyticsHandler
}

// HealthCheck reports whether the service's dependencies are reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter mounts every route under /api/v1 behind the tenant middleware.
// /healthz is public.
func NewRouter(h Handlers, tenantHeader string, log logger.Logger, health HealthCheck) *gin.Engine {
	useJSONFieldNames()

	router := gin.New()
	router.Use(RequestIDMiddleware(), RecoveryMiddleware(log), LoggingMiddleware(log))

	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				log.Error("health_check_failed", "Health check failed", logger.RequestID(c.Request.Context()), nil, err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1", TenantMiddleware(tenantHeader))
	addOrderRoutes(v1, h.Orders)
	addProductRoutes(v1, h.Products)
	addCustomerRoutes(v1, h.Customers)
	addDeliveryRoutes(v1, h.Delivery)
	addAnalyticsRoutes(v1, h.Analytics)

	return router
}

func addOrderRoutes(rg *gin.RouterGroup, h *OrderHandler) {
	orders := rg.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.POST("/preview", h.PreviewOrder)
	orders.POST("/calculate-delivery", h.CalculateDelivery)
	orders.POST("/export-courier", h.ExportCourier)
	orders.GET("/ready-for-dispatch", h.ReadyForDispatch)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id", h.UpdateOrder)
	orders.GET("/:id/history", h.GetHistory)
}

func addProductRoutes(rg *gin.RouterGroup, h *ProductHandler) {
	products := rg.Group("/products")
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.GET("/low-stock", h.LowStock)
	products.GET("/:id", h.GetProduct)
	products.PATCH("/:id", h.UpdateProduct)
	products.POST("/:id/adjust-stock", h.AdjustStock)
}

func addCustomerRoutes(rg *gin.RouterGroup, h *CustomerHandler) {
	customers := rg.Group("/customers")
	customers.POST("", h.CreateCustomer)
	customers.GET("", h.ListCustomers)
	customers.GET("/search", h.SearchByPhone)
	customers.GET("/:id", h.GetCustomer)
	customers.PATCH("/:id", h.UpdateCustomer)
}

func addDeliveryRoutes(rg *gin.RouterGroup, h *DeliveryHandler) {
	templates := rg.Group("/delivery-templates")
	templates.POST("", h.CreateTemplate)
	templates.GET("", h.ListTemplates)
	templates.GET("/:id", h.GetTemplate)
	templates.PATCH("/:id", h.UpdateTemplate)
	templates.DELETE("/:id", h.DeleteTemplate)
}

func addAnalyticsRoutes(rg *gin.RouterGroup, h *AnalyticsHandler) {
	analytics := rg.Group("/analytics")
	analytics.GET("/revenue", h.Revenue)
	analytics.GET("/orders", h.OrderStats)
	analytics.GET("/top-products", h.TopProducts)
	analytics.GET("/dashboard", h.Dashboard)
}

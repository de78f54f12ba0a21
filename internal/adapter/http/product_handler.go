package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

type ProductHandler struct {
	service interfaces.ProductService
	logger  logger.Logger
}

func NewProductHandler(service interfaces.ProductService, logger logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), scope, interfaces.CreateProductCommand{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: req.Category,
		Price:    req.Price,
		Cost:     req.Cost,
		Unit:     req.Unit,
		Stock:    req.Stock,
	})
	if err != nil {
		respondError(c, h.logger, "product_creation_failed", err)
		return
	}

	c.JSON(http.StatusCreated, fromProduct(product))
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	products, err := h.service.ListProducts(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, "product_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromProducts(products))
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var threshold *int
	if s := c.Query("threshold"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(c, h.logger, "product_list_failed", domain.InvalidInputf("threshold must be an integer"))
			return
		}
		threshold = &n
	}

	products, err := h.service.LowStock(c.Request.Context(), scope, threshold)
	if err != nil {
		respondError(c, h.logger, "product_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromProducts(products))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "product_get_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromProduct(product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), scope, c.Param("id"), interfaces.UpdateProductCommand{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: req.Category,
		Price:    req.Price,
		Cost:     req.Cost,
		Unit:     req.Unit,
	})
	if err != nil {
		respondError(c, h.logger, "product_update_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromProduct(product))
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.service.AdjustStock(c.Request.Context(), scope, c.Param("id"), req.Change, req.Reason)
	if err != nil {
		respondError(c, h.logger, "stock_adjustment_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromProduct(product))
}

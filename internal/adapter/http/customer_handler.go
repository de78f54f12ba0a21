package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

type CustomerHandler struct {
	service interfaces.CustomerService
	logger  logger.Logger
}

func NewCustomerHandler(service interfaces.CustomerService, logger logger.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, logger: logger}
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), scope, interfaces.CreateCustomerCommand{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		respondError(c, h.logger, "customer_creation_failed", err)
		return
	}

	c.JSON(http.StatusCreated, fromCustomer(customer))
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	customers, err := h.service.ListCustomers(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, "customer_list_failed", err)
		return
	}

	out := make([]customerResponse, len(customers))
	for i, cu := range customers {
		out[i] = fromCustomer(cu)
	}
	c.JSON(http.StatusOK, out)
}

// SearchByPhone looks a customer up by exact phone number.
func (h *CustomerHandler) SearchByPhone(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	customer, err := h.service.FindByPhone(c.Request.Context(), scope, c.Query("phone"))
	if err != nil {
		respondError(c, h.logger, "customer_search_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromCustomer(customer))
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "customer_get_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromCustomer(customer))
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), scope, c.Param("id"), interfaces.UpdateCustomerCommand{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		respondError(c, h.logger, "customer_update_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromCustomer(customer))
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

type DeliveryHandler struct {
	service interfaces.DeliveryService
	logger  logger.Logger
}

func NewDeliveryHandler(service interfaces.DeliveryService, logger logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{service: service, logger: logger}
}

func (h *DeliveryHandler) CreateTemplate(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tmpl, err := h.service.CreateTemplate(c.Request.Context(), scope, interfaces.CreateTemplateCommand{
		Name:         req.Name,
		FirstKgPrice: req.FirstKgPrice,
		ExtraKgPrice: req.ExtraKgPrice,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		respondError(c, h.logger, "template_creation_failed", err)
		return
	}

	c.JSON(http.StatusCreated, fromTemplate(tmpl))
}

func (h *DeliveryHandler) ListTemplates(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	templates, err := h.service.ListTemplates(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, "template_list_failed", err)
		return
	}

	out := make([]templateResponse, len(templates))
	for i, t := range templates {
		out[i] = fromTemplate(t)
	}
	c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) GetTemplate(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	tmpl, err := h.service.GetTemplate(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "template_get_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromTemplate(tmpl))
}

func (h *DeliveryHandler) UpdateTemplate(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tmpl, err := h.service.UpdateTemplate(c.Request.Context(), scope, c.Param("id"), interfaces.UpdateTemplateCommand{
		Name:         req.Name,
		FirstKgPrice: req.FirstKgPrice,
		ExtraKgPrice: req.ExtraKgPrice,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		respondError(c, h.logger, "template_update_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromTemplate(tmpl))
}

func (h *DeliveryHandler) DeleteTemplate(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTemplate(c.Request.Context(), scope, c.Param("id")); err != nil {
		respondError(c, h.logger, "template_delete_failed", err)
		return
	}

	c.Status(http.StatusNoContent)
}

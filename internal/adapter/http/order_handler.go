package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), scope, req.command())
	if err != nil {
		respondError(c, h.logger, "order_creation_failed", err)
		return
	}

	c.JSON(http.StatusCreated, fromOrder(order))
}

func (h *OrderHandler) PreviewOrder(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req previewOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.PreviewOrder(c.Request.Context(), scope, interfaces.PreviewOrderCommand{
		Items:              itemCommands(req.Items),
		DeliveryTemplateID: req.DeliveryTemplateID,
		TotalWeight:        req.TotalWeight,
		Discount:           req.Discount,
	})
	if err != nil {
		respondError(c, h.logger, "order_preview_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromQuote(quote))
}

// CalculateDelivery answers with the fee as a bare JSON number.
func (h *OrderHandler) CalculateDelivery(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req calculateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fee, err := h.service.CalculateDeliveryFee(c.Request.Context(), scope, req.DeliveryTemplateID, req.TotalWeight)
	if err != nil {
		respondError(c, h.logger, "delivery_fee_failed", err)
		return
	}

	c.JSON(http.StatusOK, money(fee))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	filter, err := parseOrderFilter(c)
	if err != nil {
		respondError(c, h.logger, "order_list_failed", err)
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), scope, filter)
	if err != nil {
		respondError(c, h.logger, "order_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromOrders(orders))
}

func parseOrderFilter(c *gin.Context) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	if s := c.Query("status"); s != "" {
		status := domain.Status(s)
		filter.Status = &status
	}
	filter.OrderSource = c.Query("orderSource")

	if s := c.Query("startDate"); s != "" {
		t, _, err := parseTime(s)
		if err != nil {
			return filter, domain.InvalidInputf("invalid startDate %q", s)
		}
		filter.StartDate = &t
	}
	if s := c.Query("endDate"); s != "" {
		t, dateOnly, err := parseTime(s)
		if err != nil {
			return filter, domain.InvalidInputf("invalid endDate %q", s)
		}
		if dateOnly {
			// A bare date includes the whole day.
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &t
	}
	return filter, nil
}

// parseTime accepts RFC3339 or YYYY-MM-DD (read as UTC midnight).
func parseTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	return t, true, err
}

func (h *OrderHandler) ReadyForDispatch(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	orders, err := h.service.ReadyForDispatch(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, "order_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromOrders(orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "order_get_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromOrder(order))
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), scope, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, "order_update_failed", err)
		return
	}

	c.JSON(http.StatusOK, fromOrder(order))
}

func (h *OrderHandler) GetHistory(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	logs, err := h.service.GetStatusHistory(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "order_history_failed", err)
		return
	}

	out := make([]statusLogResponse, len(logs))
	for i, l := range logs {
		out[i] = statusLogResponse{Status: l.Status, ChangedBy: l.ChangedBy, ChangedAt: l.ChangedAt}
	}
	c.JSON(http.StatusOK, out)
}

var courierHeader = []string{
	"Order Number", "Customer Name", "Phone", "Address", "City",
	"Total Amount", "Delivery Fee", "Payment Method", "Items",
}

// ExportCourier returns courier upload rows as JSON, or as a CSV file when
// called with ?format=csv.
func (h *OrderHandler) ExportCourier(c *gin.Context) {
	scope, ok := scopeOf(c)
	if !ok {
		return
	}

	var req exportCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rows, err := h.service.ExportForCourier(c.Request.Context(), scope, req.OrderIDs)
	if err != nil {
		respondError(c, h.logger, "courier_export_failed", err)
		return
	}

	if c.Query("format") == "csv" {
		data, err := courierCSV(rows)
		if err != nil {
			respondError(c, h.logger, "courier_export_failed", err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="courier-export.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
		return
	}

	out := make([]courierRowResponse, len(rows))
	for i, r := range rows {
		out[i] = courierRowResponse{
			OrderNumber:   r.OrderNumber,
			CustomerName:  r.CustomerName,
			Phone:         r.Phone,
			Address:       r.Address,
			City:          r.City,
			TotalAmount:   money(r.TotalAmount),
			DeliveryFee:   money(r.DeliveryFee),
			PaymentMethod: r.PaymentMethod,
			Items:         r.Items,
		}
	}
	c.JSON(http.StatusOK, out)
}

func courierCSV(rows []domain.CourierRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(courierHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.OrderNumber, 10),
			r.CustomerName,
			r.Phone,
			r.Address,
			r.City,
			r.TotalAmount.StringFixed(2),
			r.DeliveryFee.StringFixed(2),
			r.PaymentMethod,
			r.Items,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

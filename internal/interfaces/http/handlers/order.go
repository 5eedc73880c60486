// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/order"
)

// OrderHandler handles order management for admins
type OrderHandler struct {
	deps Deps
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(deps Deps) *OrderHandler {
	return &OrderHandler{deps: deps}
}

// UpdateOrderStatusRequest moves an order along its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) service(c *gin.Context) *order.Service {
	b := browser(c)
	return order.NewService(b.API, b.Notes, h.deps.orderRecorder(), b.Log)
}

// AdminGetOrders handles GET /api/admin/orders?q=&status=
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	orders, err := h.service(c).List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return
	}

	orders = order.Filter(orders, c.Query("q"))
	if s := c.Query("status"); s != "" {
		status, err := order.ParseStatus(s)
		if err == nil {
			filtered := make([]order.Order, 0, len(orders))
			for _, o := range orders {
				if o.Status == status {
					filtered = append(filtered, o)
				}
			}
			orders = filtered
		}
	}

	respond(c, http.StatusOK, "Orders retrieved successfully", gin.H{
		"orders":   orders,
		"total":    len(orders),
		"statuses": order.Statuses,
	})
}

// AdminGetOrder handles GET /api/admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	o, err := h.service(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}
	respond(c, http.StatusOK, "Order retrieved successfully", o)
}

// AdminUpdateOrderStatus handles PATCH /api/admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if !bind(c, &req) {
		return
	}

	if err := h.service(c).UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}
	respond(c, http.StatusOK, "Order status updated successfully", nil)
}

// AdminExportOrders handles GET /api/admin/orders/export
func (h *OrderHandler) AdminExportOrders(c *gin.Context) {
	b := browser(c)
	body, contentType, err := h.service(c).Export(c.Request.Context(), b.API)
	if err != nil {
		respondError(c, err, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, body)
}

// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/order"
	"github.com/wouhouch/hub/internal/pkg/pdf"
)

// InvoiceHandler renders order receipts
type InvoiceHandler struct {
	deps       Deps
	pdfService *pdf.Service
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(deps Deps, pdfService *pdf.Service) *InvoiceHandler {
	return &InvoiceHandler{deps: deps, pdfService: pdfService}
}

func (h *InvoiceHandler) load(c *gin.Context) (*order.Order, bool) {
	b := browser(c)
	o, err := order.NewService(b.API, b.Notes, nil, b.Log).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return nil, false
	}
	return o, true
}

// GenerateReceipt handles GET /api/admin/orders/:id/receipt
func (h *InvoiceHandler) GenerateReceipt(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}

	pdfBuffer, err := h.pdfService.Receipt(o)
	if err != nil {
		browser(c).Log.WithError(err).WithField("order_id", o.ID).Error("Failed to generate receipt")
		abortWith(c, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.ID))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

// GetReceiptPreview handles GET /api/admin/orders/:id/receipt/preview
func (h *InvoiceHandler) GetReceiptPreview(c *gin.Context) {
	o, ok := h.load(c)
	if !ok {
		return
	}

	html, err := h.pdfService.ReceiptHTML(o)
	if err != nil {
		abortWith(c, http.StatusInternalServerError, "Failed to render receipt")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

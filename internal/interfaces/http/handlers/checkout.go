// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/order"
)

// CheckoutHandler places the cart as an order
type CheckoutHandler struct {
	deps Deps
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(deps Deps) *CheckoutHandler {
	return &CheckoutHandler{deps: deps}
}

// GetCheckout handles GET /api/checkout: the cart summary and a form
// prefilled from the signed-in user
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	b := browser(c)
	snap := b.Cart.Snapshot()

	form := order.CheckoutForm{}
	if p := b.Identity.Principal(); p != nil {
		form.Name = p.FullName
		form.Email = p.Email
		form.Phone = p.Phone
	}

	respond(c, http.StatusOK, "Checkout retrieved successfully", gin.H{
		"cart": snap,
		"form": form,
	})
}

// PlaceOrder handles POST /api/checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var form order.CheckoutForm
	if !bind(c, &form) {
		return
	}

	b := browser(c)
	svc := order.NewService(b.API, b.Notes, h.deps.orderRecorder(), b.Log)
	id, err := svc.Checkout(c.Request.Context(), b.Cart, form)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}

	respond(c, http.StatusCreated, "Order placed successfully!", gin.H{
		"orderId":  id,
		"redirect": "/home",
	})
}

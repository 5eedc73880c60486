// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/catalog"
)

// CartHandler handles the browser's cart
type CartHandler struct {
	deps Deps
}

// NewCartHandler creates a new cart handler
func NewCartHandler(deps Deps) *CartHandler {
	return &CartHandler{deps: deps}
}

// AddToCartRequest names a product, optionally one of its variants
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
	Qty       int    `json:"qty"`
}

// UpdateCartItemRequest sets a line's quantity; zero or less removes the line
type UpdateCartItemRequest struct {
	Qty int `json:"qty"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	respond(c, http.StatusOK, "Cart retrieved successfully", browser(c).Cart.Snapshot())
}

// GetCartCount handles GET /api/cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	respond(c, http.StatusOK, "Cart count retrieved successfully", gin.H{
		"count": browser(c).Cart.ItemCount(),
	})
}

// AddToCart handles POST /api/cart/items. The product is read from the
// backend so the line carries current price and images.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if !bind(c, &req) {
		return
	}

	b := browser(c)
	product, variant, err := catalog.NewService(b.API).Resolve(c.Request.Context(), req.ProductID, req.VariantID)
	if err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	snap := b.Cart.AddItem(c.Request.Context(), *product, variant, req.Qty)
	respond(c, http.StatusOK, "Item added to cart successfully", snap)
}

// UpdateCartItem handles PUT /api/cart/items/:id?variantId=
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if !bind(c, &req) {
		return
	}

	snap := browser(c).Cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Qty, c.Query("variantId"))
	respond(c, http.StatusOK, "Cart item updated successfully", snap)
}

// RemoveFromCart handles DELETE /api/cart/items/:id?variantId=
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	snap := browser(c).Cart.RemoveItem(c.Request.Context(), c.Param("id"), c.Query("variantId"))
	respond(c, http.StatusOK, "Item removed from cart successfully", snap)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	snap := browser(c).Cart.Clear(c.Request.Context())
	respond(c, http.StatusOK, "Cart cleared successfully", snap)
}

// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wouhouch/hub/internal/domain/catalog"
	"github.com/wouhouch/hub/internal/pkg/validation"
)

// ProductHandler handles the shop and the admin catalog
type ProductHandler struct {
	deps Deps
}

// NewProductHandler creates a new product handler
func NewProductHandler(deps Deps) *ProductHandler {
	return &ProductHandler{deps: deps}
}

func (h *ProductHandler) service(c *gin.Context) *catalog.Service {
	return catalog.NewService(browser(c).API)
}

// GetProducts handles GET /api/products. ?collection= narrows to one collection.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var collection catalog.Collection
	if q := c.Query("collection"); q != "" {
		parsed, err := catalog.ParseCollection(q)
		if err != nil {
			respondError(c, validation.Field("collection", "Unknown collection"), "")
			return
		}
		collection = parsed
	}

	products, err := h.service(c).List(c.Request.Context(), collection)
	if err != nil {
		respondError(c, err, "Failed to retrieve products")
		return
	}

	respond(c, http.StatusOK, "Products retrieved successfully", gin.H{
		"products":   products,
		"collection": collection,
		"total":      len(products),
	})
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.service(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}

	respond(c, http.StatusOK, "Product retrieved successfully", gin.H{
		"product":    p,
		"stock":      p.AvailableStock(),
		"coverImage": p.CoverImage(),
	})
}

// AdminGetProducts handles GET /api/admin/products, inactive products included
func (h *ProductHandler) AdminGetProducts(c *gin.Context) {
	products, err := h.service(c).ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve products")
		return
	}
	respond(c, http.StatusOK, "Products retrieved successfully", products)
}

// AdminCreateProduct handles POST /api/admin/products
func (h *ProductHandler) AdminCreateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if !bind(c, &in) {
		return
	}

	p, err := h.service(c).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	browser(c).Notes.Success("Product created successfully")
	respond(c, http.StatusCreated, "Product created successfully", p)
}

// AdminUpdateProduct handles PUT /api/admin/products/:id
func (h *ProductHandler) AdminUpdateProduct(c *gin.Context) {
	var in catalog.ProductInput
	if !bind(c, &in) {
		return
	}

	p, err := h.service(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}
	browser(c).Notes.Success("Product updated successfully")
	respond(c, http.StatusOK, "Product updated successfully", p)
}

// AdminDeleteProduct handles DELETE /api/admin/products/:id
func (h *ProductHandler) AdminDeleteProduct(c *gin.Context) {
	if err := h.service(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	browser(c).Notes.Success("Product deleted successfully")
	respond(c, http.StatusOK, "Product deleted successfully", nil)
}

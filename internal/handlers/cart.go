package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	respond(c, http.StatusOK, "cart", h.session.Cart())
}

// POST /api/cart/add
func (h *Handler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	qty := 1
	if input.Quantity != nil {
		qty = *input.Quantity
	}

	view, err := h.session.AddToCart(c.Request.Context(), input.ProductID, qty)
	if err != nil {
		h.failFor(c, err)
		return
	}
	respond(c, http.StatusOK, "added to cart", view.Cart)
}

// PUT /api/cart/:productId
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var input struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.session.UpdateQuantity(c.Request.Context(), c.Param("productId"), *input.Quantity)
	if err != nil {
		h.failFor(c, err)
		return
	}
	respond(c, http.StatusOK, "cart updated", view.Cart)
}

// PATCH /api/cart/:productId/size
func (h *Handler) SelectCartItemSize(c *gin.Context) {
	var input struct {
		Size string `json:"size"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.session.SelectSize(c.Request.Context(), c.Param("productId"), input.Size)
	if err != nil {
		h.failFor(c, err)
		return
	}
	respond(c, http.StatusOK, "size selected", view.Cart)
}

// DELETE /api/cart/:productId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	view := h.session.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	respond(c, http.StatusOK, "removed from cart", view.Cart)
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	view := h.session.ClearCart(c.Request.Context())
	respond(c, http.StatusOK, "cart cleared", view.Cart)
}

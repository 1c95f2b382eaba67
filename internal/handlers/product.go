package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wear404_storefront/internal/session"
)

// GET /api/products
//
// Query parameters update the session selection: category, sub, q, sort,
// min, max, in_stock, featured, page.
func (h *Handler) ListProducts(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var view session.View
	if q.Empty() {
		view = h.session.View()
	} else {
		view = h.session.Apply(q)
	}
	c.JSON(http.StatusOK, gin.H{
		"message": view.Summary,
		"data":    view,
		"meta":    pagination(view),
	})
}

// GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.session.Product(c.Param("id"))
	if err != nil {
		h.failFor(c, err)
		return
	}
	respond(c, http.StatusOK, detail.Product.Title, detail)
}

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	respond(c, http.StatusOK, "categories", h.session.Categories())
}

// POST /api/filters/clear
func (h *Handler) ClearFilters(c *gin.Context) {
	view := h.session.ClearFilters()
	respond(c, http.StatusOK, "All filters cleared", view)
}

// POST /api/catalog/reload
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if h.loader == nil {
		fail(c, http.StatusServiceUnavailable, "catalog reload is not configured")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.reloadTimeout)
	defer cancel()

	view := h.session.Reload(ctx, h.loader)
	respond(c, http.StatusOK, view.Summary, view)
}

type queryError string

func (e queryError) Error() string { return string(e) }

func parseQuery(c *gin.Context) (session.Query, error) {
	var q session.Query
	str := func(name string) *string {
		if v, ok := c.GetQuery(name); ok {
			return &v
		}
		return nil
	}
	q.MainCategory = str("category")
	q.SubCategory = str("sub")
	q.Search = str("q")
	q.Sort = str("sort")

	for name, dst := range map[string]**decimal.Decimal{"min": &q.Min, "max": &q.Max} {
		if v := str(name); v != nil {
			d, err := decimal.NewFromString(strings.TrimSpace(*v))
			if err != nil {
				return q, queryError("invalid " + name + " price")
			}
			*dst = &d
		}
	}
	for name, dst := range map[string]**bool{"in_stock": &q.InStockOnly, "featured": &q.FeaturedOnly} {
		if v := str(name); v != nil {
			b, err := strconv.ParseBool(*v)
			if err != nil {
				return q, queryError("invalid " + name + " flag")
			}
			*dst = &b
		}
	}
	if v := str("page"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil || n < 1 {
			return q, queryError("invalid page")
		}
		q.Page = &n
	}
	return q, nil
}

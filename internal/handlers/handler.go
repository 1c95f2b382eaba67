// Package handlers exposes the storefront session over HTTP and websocket.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wear404_storefront/internal/cart"
	"wear404_storefront/internal/catalog"
	"wear404_storefront/internal/models"
	"wear404_storefront/internal/notify"
	"wear404_storefront/internal/session"
)

// Handler serves one storefront session.
type Handler struct {
	session       *session.Session
	loader        *catalog.Loader
	hub           *notify.Hub
	logger        *zap.Logger
	reloadTimeout time.Duration
}

// New returns a Handler. loader may be nil, which disables catalog reload.
func New(s *session.Session, loader *catalog.Loader, hub *notify.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		session:       s,
		loader:        loader,
		hub:           hub,
		logger:        logger,
		reloadTimeout: 10 * time.Second,
	}
}

// WithReloadTimeout bounds catalog reloads.
func (h *Handler) WithReloadTimeout(d time.Duration) *Handler {
	if d > 0 {
		h.reloadTimeout = d
	}
	return h
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.ApiResponse{Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ApiResponse{Message: message, Error: true})
}

func pagination(v session.View) *models.Pagination {
	return &models.Pagination{
		Page:       v.Page,
		Limit:      v.PageSize,
		Total:      v.Filtered,
		TotalPages: v.TotalPages,
	}
}

// failFor maps domain errors to HTTP statuses.
func (h *Handler) failFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownProduct), errors.Is(err, cart.ErrLineNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrOutOfStock):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrUnknownSize):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

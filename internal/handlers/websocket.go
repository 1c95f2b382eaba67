package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"wear404_storefront/internal/metrics"
	"wear404_storefront/internal/notify"
	"wear404_storefront/internal/session"
)

// GET /ws
func (h *Handler) WebSocket(c *gin.Context) {
	h.hub.ServeHTTP(c.Writer, c.Request)
}

// inputMessage is what clients send while the visitor types or drags the
// price slider.
type inputMessage struct {
	Type string           `json:"type"`
	Term string           `json:"term"`
	Min  *decimal.Decimal `json:"min"`
	Max  *decimal.Decimal `json:"max"`
}

// HubHooks connects websocket clients to the session: a new client gets the
// current view and input messages go through the debounced session inputs.
func (h *Handler) HubHooks(m *metrics.Metrics) notify.Hooks {
	return notify.Hooks{
		OnConnect: func(clientID string) {
			h.hub.SendTo(clientID, "products", h.session.View())
		},
		OnMessage: h.handleInput,
		OnCountChange: func(delta int) {
			if delta > 0 {
				m.ClientConnected()
			} else {
				m.ClientDisconnected()
			}
		},
	}
}

func (h *Handler) handleInput(clientID string, data []byte) {
	var msg inputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.logger.Debug("ignoring malformed websocket message", zap.String("client", clientID), zap.Error(err))
		return
	}
	switch msg.Type {
	case "search":
		h.session.InputSearch(msg.Term)
	case "price":
		current := h.session.Filter().PriceRange
		lo, hi := current.Min, current.Max
		if msg.Min != nil {
			lo = *msg.Min
		}
		if msg.Max != nil {
			hi = *msg.Max
		}
		h.session.InputPriceRange(lo, hi)
	default:
		h.logger.Debug("unknown websocket message", zap.String("client", clientID), zap.String("type", msg.Type))
	}
}

// HubRenderer pushes every recomputed view to all websocket clients.
type HubRenderer struct {
	Hub *notify.Hub
}

func (r HubRenderer) Render(v session.View) {
	r.Hub.Broadcast("products", v)
}

// Package webhook exposes the inbound trigger: the host platform POSTs the
// completed order and its session context here once per validated order.
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"github.com/JKalith/clocky-accounting-integration/internal/pos"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler receives order-completed events over HTTP and hands them to the
// registered order handler.
type Handler struct {
	verifier *Verifier
	orders   pos.Handler
	logger   *zap.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(verifier *Verifier, orders pos.Handler, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{verifier: verifier, orders: orders, logger: logger}
}

// completionEvent is the wire shape of an order-completed POST. Both slots
// decode leniently; structural checks happen in entity.DecodeOrder.
type completionEvent struct {
	Order json.RawMessage `json:"order"`
	Pos   json.RawMessage `json:"pos"`
}

// HandleOrderCompleted processes one POSTed order-completed event. The
// response carries the cashier summary; delivery runs detached, so its
// outcome never shows up here beyond the advisory "dispatched" marker.
func (h *Handler) HandleOrderCompleted(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if !h.verifier.Verify(c.GetHeader("Authorization")) {
		h.logger.Warn("rejected order-completed event with invalid token",
			zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var event completionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("unreadable order-completed event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	order, err := entity.DecodeOrder(event.Order)
	if err != nil {
		// Structural failure: something is in the order slot, but it is
		// not an order. The order itself already completed upstream.
		h.logger.Error("structural failure decoding order", zap.Error(err))
		status := http.StatusUnprocessableEntity
		if !errors.Is(err, entity.ErrNotAnOrder) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if order == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no active order"})
		return
	}

	posCtx, err := entity.DecodePosContext(event.Pos)
	if err != nil {
		// A broken session context degrades to an empty one.
		h.logger.Warn("unreadable pos context, continuing with defaults", zap.Error(err))
	}

	summary, err := h.orders.HandleOrderCompleted(c.Request.Context(), pos.OrderCompleted{
		Order:   order,
		Context: posCtx,
	})
	if err != nil {
		h.logger.Error("order handler failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("order-completed event processed",
		zap.String("order", order.Name))
	c.JSON(http.StatusOK, gin.H{
		"summary":  summary,
		"delivery": "dispatched",
	})
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"github.com/JKalith/clocky-accounting-integration/internal/pos"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderHandler struct {
	lastEvent *pos.OrderCompleted
}

func (f *fakeOrderHandler) HandleOrderCompleted(_ context.Context, ev pos.OrderCompleted) (*entity.SummaryView, error) {
	f.lastEvent = &ev
	return &entity.SummaryView{OrderName: ev.Order.Name, State: "posted"}, nil
}

func newTestRouter(token string) (*gin.Engine, *fakeOrderHandler) {
	gin.SetMode(gin.TestMode)
	orders := &fakeOrderHandler{}
	handler := NewHandler(NewVerifier(token, nil), orders, nil)

	router := gin.New()
	router.POST("/webhooks/pos/order-completed", handler.HandleOrderCompleted)
	return router, orders
}

func postEvent(router *gin.Engine, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/pos/order-completed", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidEvent(t *testing.T) {
	router, orders := newTestRouter("")

	w := postEvent(router, `{
		"order": {"name": "Order 0001", "lines": [], "payments": []},
		"pos": {"config": {"name": "Caja 1"}}
	}`, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary  entity.SummaryView `json:"summary"`
		Delivery string             `json:"delivery"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Order 0001", resp.Summary.OrderName)
	assert.Equal(t, "dispatched", resp.Delivery)

	require.NotNil(t, orders.lastEvent)
	require.NotNil(t, orders.lastEvent.Context.Config)
	assert.Equal(t, "Caja 1", orders.lastEvent.Context.Config.Name)
}

func TestHandleMissingOrderIsAdvisory(t *testing.T) {
	router, orders := newTestRouter("")

	w := postEvent(router, `{"pos": {}}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no active order")
	assert.Nil(t, orders.lastEvent)
}

func TestHandleStructuralFailure(t *testing.T) {
	router, orders := newTestRouter("")

	w := postEvent(router, `{"order": 42}`, "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Nil(t, orders.lastEvent)
}

func TestHandleUnreadablePayload(t *testing.T) {
	router, _ := newTestRouter("")

	w := postEvent(router, `{not json`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRejectsBadToken(t *testing.T) {
	router, orders := newTestRouter("expected")

	w := postEvent(router, `{"order": {"name": "Order 0001"}}`, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, orders.lastEvent)

	w = postEvent(router, `{"order": {"name": "Order 0001"}}`, "expected")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleBrokenPosContextDegrades(t *testing.T) {
	router, orders := newTestRouter("")

	w := postEvent(router, `{"order": {"name": "Order 0002"}, "pos": "broken"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, orders.lastEvent)
	assert.NotNil(t, orders.lastEvent.Context)
	assert.Nil(t, orders.lastEvent.Context.Currency)
}

func TestVerifier(t *testing.T) {
	open := NewVerifier("", nil)
	assert.True(t, open.Verify(""))
	assert.True(t, open.Verify("Bearer anything"))

	guarded := NewVerifier("sekrit", nil)
	assert.True(t, guarded.Verify("Bearer sekrit"))
	assert.False(t, guarded.Verify("Bearer nope"))
	assert.False(t, guarded.Verify("sekrit"))
	assert.False(t, guarded.Verify(""))
}

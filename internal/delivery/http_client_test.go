package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *entity.CanonicalInvoiceDocument {
	return &entity.CanonicalInvoiceDocument{
		Invoice: entity.Invoice{
			Name:  "Order 0001",
			State: "posted",
			Amounts: entity.Amounts{
				Untaxed: 20, Tax: 0, Total: 20,
			},
		},
	}
}

func TestHTTPDeliverSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"received": "Order 0001"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{URL: srv.URL, Token: "sekrit"}, nil, nil)
	result := c.Deliver(context.Background(), sampleDocument())

	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Empty(t, result.Error)
	assert.Equal(t, "Bearer sekrit", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	invoice := gotBody["invoice"].(map[string]interface{})
	assert.Equal(t, "Order 0001", invoice["name"])

	response := result.Response.(map[string]interface{})
	assert.Equal(t, "Order 0001", response["received"])
}

func TestHTTPDeliverRemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "duplicate consecutive number"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{URL: srv.URL}, nil, nil)
	result := c.Deliver(context.Background(), sampleDocument())

	assert.False(t, result.OK)
	assert.Equal(t, "duplicate consecutive number", result.Error)
	assert.Equal(t, http.StatusOK, result.Status)
}

func TestHTTPDeliverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{URL: srv.URL}, nil, nil)
	result := c.Deliver(context.Background(), sampleDocument())

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestHTTPDeliverNonJSONBodyTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text ack"))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPConfig{URL: srv.URL}, nil, nil)
	result := c.Deliver(context.Background(), sampleDocument())

	assert.True(t, result.OK)
	response := result.Response.(map[string]interface{})
	assert.Equal(t, "plain text ack", response["raw"])
}

func TestHTTPDeliverNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewHTTPClient(HTTPConfig{URL: srv.URL}, nil, nil)
	result := c.Deliver(context.Background(), sampleDocument())

	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Error)
}

func TestHTTPDeliverWithoutURL(t *testing.T) {
	c := NewHTTPClient(HTTPConfig{}, nil, nil)
	result := c.Deliver(context.Background(), sampleDocument())

	assert.False(t, result.OK)
	assert.Equal(t, "no delivery URL configured", result.Error)
}

package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single delivery call when no timeout is
// configured.
const DefaultTimeout = 30 * time.Second

// HTTPConfig configures the direct HTTP delivery path.
type HTTPConfig struct {
	URL     string
	Token   string // sent as Authorization: Bearer when set
	Timeout time.Duration
}

// HTTPClient POSTs the JSON-serialized document to the configured fiscal
// proxy URL.
type HTTPClient struct {
	cfg     HTTPConfig
	client  *http.Client
	metrics *Metrics
	logger  *zap.Logger
}

// NewHTTPClient creates an HTTP delivery client.
func NewHTTPClient(cfg HTTPConfig, metrics *Metrics, logger *zap.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// Deliver implements Deliverer.
func (c *HTTPClient) Deliver(ctx context.Context, doc *entity.CanonicalInvoiceDocument) Result {
	if c.cfg.URL == "" {
		c.metrics.failed(ReasonConfig)
		return Result{OK: false, Error: "no delivery URL configured"}
	}

	body, err := json.Marshal(doc)
	if err != nil {
		c.metrics.failed(ReasonEncode)
		return Result{OK: false, Error: fmt.Sprintf("encode document: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		c.metrics.failed(ReasonTransport)
		return Result{OK: false, Error: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.failed(ReasonTransport)
		c.logger.Error("fiscal proxy unreachable", zap.Error(err))
		return Result{OK: false, Error: fmt.Sprintf("post to fiscal proxy: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.failed(ReasonTransport)
		return Result{OK: false, Status: resp.StatusCode, Error: fmt.Sprintf("read response: %v", err)}
	}
	parsed := parseBody(raw)

	if resp.StatusCode >= http.StatusBadRequest {
		c.metrics.failed(ReasonRejected)
		c.logger.Warn("fiscal proxy returned error status",
			zap.Int("status", resp.StatusCode))
		return Result{
			OK:       false,
			Status:   resp.StatusCode,
			Response: parsed,
			Error:    fmt.Sprintf("fiscal proxy returned HTTP %d", resp.StatusCode),
		}
	}

	if msg, rejected := remoteRejection(parsed); rejected {
		c.metrics.failed(ReasonRejected)
		c.logger.Warn("fiscal proxy rejected document", zap.String("error", msg))
		return Result{OK: false, Status: resp.StatusCode, Response: parsed, Error: msg}
	}

	c.metrics.delivered()
	return Result{OK: true, Status: resp.StatusCode, Response: parsed}
}

// parseBody JSON-decodes the response best-effort; an unparsable body is
// tolerated and wrapped as {"raw": <body>}.
func parseBody(raw []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed == nil {
		return map[string]interface{}{"raw": string(raw)}
	}
	return parsed
}

// remoteRejection detects an explicit failure indicator inside an otherwise
// successful response payload.
func remoteRejection(parsed interface{}) (string, bool) {
	m, ok := parsed.(map[string]interface{})
	if !ok {
		return "", false
	}
	okField, present := m["ok"].(bool)
	if !present || okField {
		return "", false
	}
	if msg, _ := m["error"].(string); msg != "" {
		return msg, true
	}
	return "remote endpoint reported failure", true
}

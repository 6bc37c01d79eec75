package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"go.uber.org/zap"
)

// RPCConfig configures delivery through the host platform's remote-call
// mechanism: one method on one namespace, invoked with the document as the
// single positional argument.
type RPCConfig struct {
	Endpoint  string
	Namespace string
	Method    string
	Timeout   time.Duration
}

// RPCClient calls the platform-side integration method, which performs the
// actual forwarding and answers with the same Result envelope.
type RPCClient struct {
	cfg     RPCConfig
	client  *http.Client
	metrics *Metrics
	logger  *zap.Logger
	seq     atomic.Int64
}

// NewRPCClient creates a platform remote-call delivery client.
func NewRPCClient(cfg RPCConfig, metrics *Metrics, logger *zap.Logger) *RPCClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Model  string        `json:"model"`
	Method string        `json:"method"`
	Args   []interface{} `json:"args"`
}

type rpcResponse struct {
	Result *Result   `json:"result"`
	Error  *rpcError `json:"error"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Deliver implements Deliverer.
func (c *RPCClient) Deliver(ctx context.Context, doc *entity.CanonicalInvoiceDocument) Result {
	if c.cfg.Endpoint == "" {
		c.metrics.failed(ReasonConfig)
		return Result{OK: false, Error: "no RPC endpoint configured"}
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: rpcParams{
			Model:  c.cfg.Namespace,
			Method: c.cfg.Method,
			Args:   []interface{}{doc},
		},
		ID: c.seq.Add(1),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		c.metrics.failed(ReasonEncode)
		return Result{OK: false, Error: fmt.Sprintf("encode RPC request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		c.metrics.failed(ReasonTransport)
		return Result{OK: false, Error: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.failed(ReasonTransport)
		c.logger.Error("platform RPC unreachable", zap.Error(err))
		return Result{OK: false, Error: fmt.Sprintf("call %s.%s: %v", c.cfg.Namespace, c.cfg.Method, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.failed(ReasonTransport)
		return Result{OK: false, Status: resp.StatusCode, Error: fmt.Sprintf("read response: %v", err)}
	}

	var decoded rpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.metrics.failed(ReasonTransport)
		return Result{OK: false, Status: resp.StatusCode, Error: fmt.Sprintf("decode RPC response: %v", err)}
	}
	if decoded.Error != nil {
		c.metrics.failed(ReasonRejected)
		c.logger.Warn("platform RPC reported error",
			zap.Int("code", decoded.Error.Code),
			zap.String("message", decoded.Error.Message))
		return Result{OK: false, Status: resp.StatusCode, Error: decoded.Error.Message}
	}
	if decoded.Result == nil {
		c.metrics.failed(ReasonRejected)
		return Result{OK: false, Status: resp.StatusCode, Error: "empty RPC result"}
	}

	result := *decoded.Result
	if result.OK {
		c.metrics.delivered()
	} else {
		c.metrics.failed(ReasonRejected)
		if result.Error == "" {
			result.Error = "remote endpoint reported failure"
		}
	}
	return result
}

// Package delivery ships canonical invoice documents to the fiscal proxy.
//
// Two paths exist: a direct HTTP POST of the JSON document, and the host
// platform's remote-call mechanism addressed by a (namespace, method) pair.
// Both classify the outcome into the same Result envelope; a failed delivery
// is reported, never retried, and never blocks the completed order.
package delivery

import (
	"context"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
)

// Result is the delivery outcome envelope used end to end across the proxy
// chain: ok with status and parsed response on success, ok=false with a
// message otherwise.
type Result struct {
	OK       bool        `json:"ok"`
	Status   int         `json:"status,omitempty"`
	Response interface{} `json:"response,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Deliverer sends one canonical document and classifies the outcome. It
// never returns a Go error: every failure mode is representable in Result
// so callers cannot accidentally escalate a delivery problem.
type Deliverer interface {
	Deliver(ctx context.Context, doc *entity.CanonicalInvoiceDocument) Result
}

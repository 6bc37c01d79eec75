package pos

import (
	"context"

	"github.com/JKalith/clocky-accounting-integration/internal/delivery"
	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
	"github.com/JKalith/clocky-accounting-integration/internal/normalizer"
	"go.uber.org/zap"
)

// Integration is the order-completed subscriber: it normalizes the order
// into the canonical document, dispatches the delivery asynchronously and
// returns the summary projection. Order completion is serialized per
// terminal, so at most one delivery is in flight per completed order; the
// outcome is logged only and never surfaces to the cashier flow beyond an
// advisory.
type Integration struct {
	normalizer *normalizer.Normalizer
	deliverer  delivery.Deliverer
	logger     *zap.Logger

	// deliveryTimeout bounds the detached delivery call, which otherwise
	// outlives the request context.
	deliveryTimeout func() (context.Context, context.CancelFunc)
}

// NewIntegration wires the normalizer and a delivery client into an
// order-completed handler.
func NewIntegration(n *normalizer.Normalizer, d delivery.Deliverer, logger *zap.Logger) *Integration {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Integration{
		normalizer: n,
		deliverer:  d,
		logger:     logger,
		deliveryTimeout: func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), delivery.DefaultTimeout)
		},
	}
}

// HandleOrderCompleted implements Handler.
func (i *Integration) HandleOrderCompleted(_ context.Context, ev OrderCompleted) (*entity.SummaryView, error) {
	doc, summary := i.normalizer.Normalize(ev.Order, ev.Context)
	if doc == nil {
		return nil, nil
	}

	i.logger.Info("order normalized",
		zap.String("order", doc.Invoice.Name),
		zap.Int("lines", len(doc.Invoice.Lines)),
		zap.Float64("total", doc.Invoice.Amounts.Total))

	go i.deliver(doc)

	return summary, nil
}

// deliver runs detached from the caller; the completed order never waits on
// the fiscal proxy.
func (i *Integration) deliver(doc *entity.CanonicalInvoiceDocument) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("panic during delivery", zap.Any("panic", r))
		}
	}()

	ctx, cancel := i.deliveryTimeout()
	defer cancel()

	result := i.deliverer.Deliver(ctx, doc)
	if result.OK {
		i.logger.Info("document delivered",
			zap.String("order", doc.Invoice.Name),
			zap.Int("status", result.Status))
		return
	}
	i.logger.Error("document delivery failed",
		zap.String("order", doc.Invoice.Name),
		zap.Int("status", result.Status),
		zap.String("error", result.Error))
}

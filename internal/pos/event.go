// Package pos defines the order-completed event surface. The core
// subscribes to completed orders through an explicit handler interface
// instead of overriding any host-platform internals; whatever receives the
// event from the platform (the webhook, an embedding process, a test)
// simply invokes the registered handler.
package pos

import (
	"context"

	"github.com/JKalith/clocky-accounting-integration/internal/domain/entity"
)

// OrderCompleted is fired once per validated order, carrying the completed
// order and its session context. Both are read-only for handlers.
type OrderCompleted struct {
	Order   *entity.OrderSnapshot
	Context *entity.PosContext
}

// Handler consumes order-completed events. It returns the summary
// projection for the cashier display; a nil summary with nil error means
// there was no active order to process.
type Handler interface {
	HandleOrderCompleted(ctx context.Context, ev OrderCompleted) (*entity.SummaryView, error)
}

package ports

import (
	"context"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the kitchen preparation flow, either inline or
// on a durable workflow engine.
type WorkflowOrchestrator interface {
	PrepareOrder(ctx context.Context, id int64) (*domain.Order, error)
}

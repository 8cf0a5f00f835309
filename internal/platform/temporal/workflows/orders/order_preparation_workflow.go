package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/platform/temporal/sequences"
)

const (
	// OrderPreparationWorkflowName is the public identifier for registering the workflow.
	OrderPreparationWorkflowName = "orders.workflows.Preparation"
	// OrderPreparationTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPreparationTaskQueue = "ORDER_PREPARATION"
)

// OrderPreparationWorkflowInput captures the payload required to prepare an order.
type OrderPreparationWorkflowInput struct {
	OrderID int64
	TraceID string
}

// OrderPreparationWorkflow orchestrates the activities needed to complete a
// confirmed order.
func OrderPreparationWorkflow(ctx workflow.Context, input OrderPreparationWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPreparationWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	order, err := sequences.RunOrderPreparationSequence(ctx, input.OrderID)
	if err != nil {
		logger.Error("OrderPreparationWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPreparationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}

package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	orderactivities "github.com/martagenovese/poldo/internal/platform/temporal/activities/orders"
)

// RunOrderPreparationSequence executes the ordered set of activities needed
// to complete a confirmed order.
func RunOrderPreparationSequence(ctx workflow.Context, orderID int64) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order preparation sequence started", "orderId", orderID)
	prepareOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	notifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, prepareOptions), orderactivities.MarkOrderPreparedActivityName, orderID).Get(ctx, &order)
	if err != nil {
		logger.Error("order preparation sequence failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("order preparation sequence prepared", "orderId", order.ID)

	// Notify with a separate retry policy; a lost event must not undo the prepare.
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, notifyOptions), orderactivities.NotifyOrderPreparedActivityName, orderID).Get(ctx, nil); err != nil {
		logger.Error("order preparation sequence notify failed", "orderId", orderID, "error", err)
		return &order, err
	}
	return &order, nil
}

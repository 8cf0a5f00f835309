package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/martagenovese/poldo/internal/domains/orders/domain"
	"github.com/martagenovese/poldo/internal/domains/orders/ports"
	orderworkflows "github.com/martagenovese/poldo/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPreparationTaskQueue}
}

// PrepareOrder starts the Temporal workflow that completes a confirmed order.
// The workflow ID is derived from the order ID alone, so a second preparation
// request for the same order attaches to the running execution instead of
// racing it.
func (o *TemporalOrderWorkflows) PrepareOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	workflowID := fmt.Sprintf("order-preparation-%d", id)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPreparationWorkflow,
		orderworkflows.OrderPreparationWorkflowInput{OrderID: id, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order domain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, err
			}
			return &order, nil
		}
		return nil, err
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful
// for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PrepareOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) PrepareOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.MarkPrepared(ctx, id)
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

package framework

import (
	"context"
	"log/slog"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/hysterresis/garmin-exercises/pkg/bootstrap"
	"github.com/hysterresis/garmin-exercises/pkg/execution"
)

// HandlerFunc is the signature for a cloud function handler.
// It receives the context, event, service, logger, and execution ID.
// Returns outputs (for logging) and error.
type HandlerFunc func(ctx context.Context, e event.Event, svc *bootstrap.Service, logger *slog.Logger, execID string) (interface{}, error)

// WrapCloudEvent wraps a handler with automatic execution logging.
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		logger := slog.With("service", serviceName)

		execID, err := execution.LogStart(ctx, svc.DB, serviceName, execution.ExecutionOptions{
			TriggerType: "pubsub",
		})
		if err != nil {
			logger.Error("Failed to log execution start", "error", err)
			// Continue anyway - don't fail the function just because logging failed
		}

		logger = logger.With("execution_id", execID)
		logger.Info("Function started")

		outputs, handlerErr := handler(ctx, e, svc, logger, execID)

		if handlerErr != nil {
			logger.Error("Function failed", "error", handlerErr)
			if logErr := execution.LogFailure(ctx, svc.DB, execID, handlerErr); logErr != nil {
				logger.Warn("Failed to log execution failure", "error", logErr)
			}
			return handlerErr
		}

		logger.Info("Function completed successfully")
		if logErr := execution.LogSuccess(ctx, svc.DB, execID, outputs); logErr != nil {
			logger.Warn("Failed to log execution success", "error", logErr)
		}

		return nil
	}
}

// Package function exposes the catalog collector as a Cloud Function.
package function

import (
	"context"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/hysterresis/garmin-exercises/pkg/bootstrap"
	"github.com/hysterresis/garmin-exercises/pkg/framework"
	"github.com/hysterresis/garmin-exercises/pkg/infrastructure/pubsub"
)

var (
	svc      *bootstrap.Service
	initOnce sync.Once
)

func initService() {
	initOnce.Do(func() {
		bootstrap.InitLogger()
		s, err := bootstrap.NewService(context.Background())
		if err != nil {
			slog.Error("Service initialization failed", "error", err)
			return
		}
		svc = s
	})
}

func init() {
	functions.CloudEvent("CollectExercises", collectExercises)
}

func collectExercises(ctx context.Context, e event.Event) error {
	initService()
	return framework.WrapCloudEvent("collector", svc, runCollection)(ctx, e)
}

// runCollection fetches the catalogs, builds the category tables and
// exports them to the configured spreadsheet.
func runCollection(ctx context.Context, e event.Event, svc *bootstrap.Service, logger *slog.Logger, execID string) (interface{}, error) {
	c := svc.NewCollector(logger, true)

	result, err := c.Run(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("Collection complete",
		"sheet_url", result.SheetURL,
		"row_counts", result.RowCounts)

	if svc.Config.EnablePublish && svc.Pub != nil {
		completed, evtErr := pubsub.NewRunCompletedEvent(result)
		if evtErr != nil {
			logger.Warn("Failed to build completion event", "error", evtErr)
		} else if _, pubErr := svc.Pub.PublishCloudEvent(ctx, svc.Config.CompletionTopic, completed); pubErr != nil {
			logger.Warn("Failed to publish completion event", "error", pubErr)
		}
	}

	return result, nil
}

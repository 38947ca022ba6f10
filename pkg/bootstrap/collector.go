package bootstrap

import (
	"log/slog"

	"github.com/hysterresis/garmin-exercises/pkg/collector"
	"github.com/hysterresis/garmin-exercises/pkg/garmin"
	infrasheets "github.com/hysterresis/garmin-exercises/pkg/infrastructure/sheets"
)

// NewGarminClient builds the transport client from configuration.
func (s *Service) NewGarminClient() *garmin.Client {
	return garmin.NewClient(
		garmin.WithBaseURL(s.Config.GarminBaseURL),
		garmin.WithLocale(s.Config.GarminLocale),
	)
}

// NewMaterializer builds the spreadsheet sink, or nil when no Sheets
// credentials were configured.
func (s *Service) NewMaterializer(logger *slog.Logger) *infrasheets.Materializer {
	if s.Sheets == nil || s.Drive == nil {
		return nil
	}
	return infrasheets.New(s.Sheets, s.Drive, s.Store, infrasheets.Config{
		Title:       s.Config.SpreadsheetTitle,
		EditorEmail: s.Config.ShareEditorEmail,
		StateBucket: s.Config.SnapshotBucket,
	}, logger)
}

// NewCollector assembles the full pipeline from the initialized service.
// export=false leaves the sink out, producing snapshots only.
func (s *Service) NewCollector(logger *slog.Logger, export bool) *collector.Collector {
	client := s.NewGarminClient()
	snapshots := collector.NewSnapshotStore(s.Store, s.Config.SnapshotBucket)

	var sink collector.SheetSink
	if export {
		if m := s.NewMaterializer(logger); m != nil {
			sink = m
		}
	}

	return collector.New(client, collector.NewDetailResolver(client, logger), snapshots, sink, logger)
}

package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// Source delivers the whole-run prerequisite documents.
type Source interface {
	FetchCatalog(ctx context.Context, ds garmin.Dataset) (*garmin.Catalog, error)
	FetchEquipment(ctx context.Context) ([]garmin.EquipmentCategory, error)
	FetchTranslations(ctx context.Context) (string, error)
}

// SheetSink renders finished tables into the spreadsheet and returns its URL.
type SheetSink interface {
	Export(ctx context.Context, tables []*CategoryTable) (string, error)
}

// RunResult summarizes one completed collection run.
type RunResult struct {
	RunID     string         `json:"run_id"`
	SheetURL  string         `json:"sheet_url,omitempty"`
	RowCounts map[string]int `json:"row_counts"`
}

// Collector drives the full pipeline: fetch, reconcile, snapshot, export.
// Everything runs sequentially on one goroutine; pilates must be complete
// before yoga can borrow its muscle data.
type Collector struct {
	source    Source
	details   DetailSource
	snapshots *SnapshotStore
	sink      SheetSink
	logger    *slog.Logger
}

// New assembles a Collector. snapshots and sink may be nil to skip
// persistence or export.
func New(source Source, details DetailSource, snapshots *SnapshotStore, sink SheetSink, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		source:    source,
		details:   details,
		snapshots: snapshots,
		sink:      sink,
		logger:    logger,
	}
}

// Run executes a full recompute: every dataset is rebuilt from the upstream
// documents and the finished tables are exported.
func (c *Collector) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID)

	logger.Info("Fetching translations")
	text, err := c.source.FetchTranslations(ctx)
	if err != nil {
		return nil, fmt.Errorf("translations are a run prerequisite: %w", err)
	}
	translations := ParseTranslations(text)
	logger.Info("Translations loaded", "entries", translations.Len())

	muscles := NewUniverse()
	equipment := NewUniverse()
	builder := NewDatasetBuilder(translations, c.details, muscles, logger)

	logger.Info("Processing Exercises data")
	exercisesCatalog, err := c.source.FetchCatalog(ctx, garmin.DatasetExercises)
	if err != nil {
		return nil, err
	}
	exercises, err := builder.Build(ctx, garmin.DatasetExercises, exercisesCatalog)
	if err != nil {
		return nil, err
	}

	equipmentDoc, err := c.source.FetchEquipment(ctx)
	if err != nil {
		return nil, err
	}
	equipmentIndex := BuildEquipmentIndex(equipmentDoc, equipment)

	logger.Info("Processing Pilates data")
	pilatesCatalog, err := c.source.FetchCatalog(ctx, garmin.DatasetPilates)
	if err != nil {
		return nil, err
	}
	pilates, err := builder.Build(ctx, garmin.DatasetPilates, pilatesCatalog)
	if err != nil {
		return nil, err
	}

	logger.Info("Processing Yoga data")
	yogaCatalog, err := c.source.FetchCatalog(ctx, garmin.DatasetYoga)
	if err != nil {
		return nil, err
	}
	yoga, err := builder.BuildYoga(ctx, yogaCatalog, pilatesCatalog)
	if err != nil {
		return nil, err
	}

	logger.Info("Processing Mobility data")
	mobilityCatalog, err := c.source.FetchCatalog(ctx, garmin.DatasetMobility)
	if err != nil {
		return nil, err
	}
	mobility, err := builder.Build(ctx, garmin.DatasetMobility, mobilityCatalog)
	if err != nil {
		return nil, err
	}

	// Universes close only once every table is built, so earlier tables get
	// columns for muscles first seen by later ones.
	muscleCols := muscles.Close()
	equipmentCols := equipment.Close()

	equipmentIndex.Apply(exercises)
	exercises.Finalize(muscleCols, equipmentCols)
	yoga.Finalize(muscleCols, nil)
	pilates.Finalize(muscleCols, nil)
	mobility.Finalize(muscleCols, nil)

	tables := []*CategoryTable{exercises, yoga, pilates, mobility}

	if c.snapshots != nil {
		for _, t := range tables {
			if err := c.snapshots.Save(ctx, t); err != nil {
				// Snapshots are a re-run convenience, not part of the run contract.
				logger.Warn("Snapshot save failed", "dataset", t.Dataset, "error", err)
			}
		}
	}

	result := &RunResult{
		RunID:     runID,
		RowCounts: rowCounts(tables),
	}

	if c.sink != nil {
		logger.Info("Exporting to spreadsheet")
		url, err := c.sink.Export(ctx, tables)
		if err != nil {
			return nil, err
		}
		result.SheetURL = url
		logger.Info("Export complete", "sheet_url", url)
	}

	return result, nil
}

// ExportFromSnapshots re-materializes the spreadsheet from the last run's
// saved tables without refetching anything.
func (c *Collector) ExportFromSnapshots(ctx context.Context) (*RunResult, error) {
	if c.snapshots == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}
	if c.sink == nil {
		return nil, fmt.Errorf("no sheet sink configured")
	}

	tables := make([]*CategoryTable, 0, len(garmin.Datasets))
	for _, ds := range garmin.Datasets {
		t, err := c.snapshots.Load(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("load %s snapshot: %w", ds, err)
		}
		tables = append(tables, t)
	}

	url, err := c.sink.Export(ctx, tables)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:     uuid.NewString(),
		SheetURL:  url,
		RowCounts: rowCounts(tables),
	}, nil
}

func rowCounts(tables []*CategoryTable) map[string]int {
	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		counts[string(t.Dataset)] = len(t.Rows)
	}
	return counts
}

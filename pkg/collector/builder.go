package collector

import (
	"context"
	"log/slog"

	collerrors "github.com/hysterresis/garmin-exercises/pkg/errors"
	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// DatasetBuilder produces one CategoryTable per dataset, orchestrating the
// translation table, detail source, and muscle universe per exercise. Rows
// stay sparse; the caller finalizes them once every universe is closed.
type DatasetBuilder struct {
	translations *TranslationTable
	details      DetailSource
	muscles      *Universe
	logger       *slog.Logger
}

func NewDatasetBuilder(translations *TranslationTable, details DetailSource, muscles *Universe, logger *slog.Logger) *DatasetBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetBuilder{
		translations: translations,
		details:      details,
		muscles:      muscles,
		logger:       logger,
	}
}

// Build processes a catalog whose muscle data comes from the detail record
// when one exists, else from the catalog entry itself. Used for Exercises,
// Pilates, and Mobility.
func (b *DatasetBuilder) Build(ctx context.Context, ds garmin.Dataset, catalog *garmin.Catalog) (*CategoryTable, error) {
	table := &CategoryTable{Dataset: ds}

	for _, cat := range catalog.Categories {
		for _, ex := range cat.Exercises {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, detail := b.baseRow(ctx, cat.Key, ex.Key)

			// Detail-sourced and catalog-sourced lists are mutually
			// exclusive: a found detail record wins even when its lists
			// are empty.
			if detail.Found {
				AnnotateMuscles(row, detail.PrimaryMuscles, detail.SecondaryMuscles, b.muscles)
			} else {
				AnnotateMuscles(row, ex.PrimaryMuscles, ex.SecondaryMuscles, b.muscles)
			}

			table.Rows = append(table.Rows, row)
		}
	}

	b.logger.Info("Dataset built", "dataset", ds, "rows", len(table.Rows), "muscles_seen", b.muscles.Len())
	return table, nil
}

// BuildYoga processes the yoga catalog. Muscle data always comes from the
// matching pilates catalog entry; yoga's own detail record contributes only
// the detail fields. A missing pilates match aborts the run.
func (b *DatasetBuilder) BuildYoga(ctx context.Context, yoga, pilates *garmin.Catalog) (*CategoryTable, error) {
	table := &CategoryTable{Dataset: garmin.DatasetYoga}

	for _, cat := range yoga.Categories {
		for _, ex := range cat.Exercises {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, _ := b.baseRow(ctx, cat.Key, ex.Key)

			match, ok := pilates.Lookup(cat.Key, ex.Key)
			if !ok {
				return nil, collerrors.ErrCrossReferenceMissing.WithMetadata("exercise", row.Key())
			}
			AnnotateMuscles(row, match.PrimaryMuscles, match.SecondaryMuscles, b.muscles)

			table.Rows = append(table.Rows, row)
		}
	}

	b.logger.Info("Dataset built", "dataset", garmin.DatasetYoga, "rows", len(table.Rows), "muscles_seen", b.muscles.Len())
	return table, nil
}

// baseRow resolves the display name and detail fields shared by every
// dataset. The detail record is always attempted and always recorded,
// independent of where the row's muscle data comes from.
func (b *DatasetBuilder) baseRow(ctx context.Context, category, exerciseKey string) (*Row, DetailRecord) {
	row := NewRow(category, exerciseKey)

	name, ok := b.translations.Resolve(category, exerciseKey)
	if !ok {
		b.logger.Warn("Translation not found", "key", row.Key())
		name = FallbackName(category, exerciseKey)
	}
	row.Name = name

	detail := b.details.Resolve(ctx, category, exerciseKey)
	row.Found = detail.Found
	row.URL = detail.URL
	row.Difficulty = detail.Difficulty
	row.Description = detail.Description
	row.Image = detail.ImageURL

	return row, detail
}

package collector

import (
	"context"
	goerrors "errors"
	"testing"

	collerrors "github.com/hysterresis/garmin-exercises/pkg/errors"
	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// fakeDetails serves canned detail records keyed by "{category}_{key}".
type fakeDetails struct {
	records map[string]DetailRecord
}

func (f *fakeDetails) Resolve(ctx context.Context, category, exerciseKey string) DetailRecord {
	return f.records[category+"_"+exerciseKey]
}

func testCatalog(categories ...garmin.CatalogCategory) *garmin.Catalog {
	return &garmin.Catalog{Categories: categories}
}

func TestBuildDetailMusclesWin(t *testing.T) {
	catalog := testCatalog(garmin.CatalogCategory{
		Key: "CARDIO",
		Exercises: []garmin.CatalogExercise{
			{Key: "BURPEE", PrimaryMuscles: []string{"CATALOG_ONLY"}},
		},
	})
	details := &fakeDetails{records: map[string]DetailRecord{
		"CARDIO_BURPEE": {
			Found:          true,
			PrimaryMuscles: []string{"QUADS"},
		},
	}}
	translations := ParseTranslations("CARDIO_BURPEE=Burpee")
	muscles := NewUniverse()
	b := NewDatasetBuilder(translations, details, muscles, nil)

	table, err := b.Build(context.Background(), garmin.DatasetExercises, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := table.Rows[0]
	if r.Name != "Burpee" || !r.Found {
		t.Errorf("unexpected row: %+v", r)
	}
	if r.Muscles["QUADS"] != ScorePrimary {
		t.Error("expected detail muscles to be used")
	}
	if _, ok := r.Muscles["CATALOG_ONLY"]; ok {
		t.Error("catalog muscles must not mix with a found detail record")
	}
}

func TestBuildFoundEmptyListsStillWin(t *testing.T) {
	// A detail record that exists but lists no muscles means "this
	// exercise has no scored muscles", not "fall back to the catalog".
	catalog := testCatalog(garmin.CatalogCategory{
		Key: "CARDIO",
		Exercises: []garmin.CatalogExercise{
			{Key: "BURPEE", PrimaryMuscles: []string{"CATALOG_ONLY"}},
		},
	})
	details := &fakeDetails{records: map[string]DetailRecord{
		"CARDIO_BURPEE": {Found: true},
	}}
	b := NewDatasetBuilder(ParseTranslations(""), details, NewUniverse(), nil)

	table, err := b.Build(context.Background(), garmin.DatasetExercises, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows[0].Muscles) != 0 {
		t.Errorf("expected no muscles, got %v", table.Rows[0].Muscles)
	}
}

func TestBuildCatalogFallback(t *testing.T) {
	catalog := testCatalog(garmin.CatalogCategory{
		Key: "CARDIO",
		Exercises: []garmin.CatalogExercise{
			{Key: "JUMPING_JACK", PrimaryMuscles: []string{"CORE"}, SecondaryMuscles: []string{"CALVES"}},
		},
	})
	b := NewDatasetBuilder(ParseTranslations(""), &fakeDetails{}, NewUniverse(), nil)

	table, err := b.Build(context.Background(), garmin.DatasetExercises, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := table.Rows[0]
	if r.Found {
		t.Error("expected Found=false without a detail record")
	}
	if r.Name != "CARDIO JUMPING_JACK" {
		t.Errorf("expected fallback name, got %q", r.Name)
	}
	if r.Muscles["CORE"] != ScorePrimary || r.Muscles["CALVES"] != ScoreSecondary {
		t.Errorf("expected catalog muscles, got %v", r.Muscles)
	}
}

func TestBuildYogaBorrowsPilatesMuscles(t *testing.T) {
	yoga := testCatalog(garmin.CatalogCategory{
		Key: "BOAT",
		Exercises: []garmin.CatalogExercise{
			{Key: "BOAT_POSE", PrimaryMuscles: []string{"YOGA_OWN"}},
		},
	})
	pilates := testCatalog(garmin.CatalogCategory{
		Key: "BOAT",
		Exercises: []garmin.CatalogExercise{
			{Key: "BOAT_POSE", PrimaryMuscles: []string{"CORE"}, SecondaryMuscles: []string{"HIPS"}},
		},
	})
	details := &fakeDetails{records: map[string]DetailRecord{
		"BOAT_BOAT_POSE": {
			Found:          true,
			Difficulty:     "BEGINNER",
			PrimaryMuscles: []string{"DETAIL_OWN"},
		},
	}}
	b := NewDatasetBuilder(ParseTranslations("BOAT_BOAT_POSE=Boat Pose"), details, NewUniverse(), nil)

	table, err := b.BuildYoga(context.Background(), yoga, pilates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := table.Rows[0]
	// Muscles come from the pilates match, never from yoga's catalog
	// entry or its own detail record.
	if r.Muscles["CORE"] != ScorePrimary || r.Muscles["HIPS"] != ScoreSecondary {
		t.Errorf("expected pilates muscles, got %v", r.Muscles)
	}
	if _, ok := r.Muscles["YOGA_OWN"]; ok {
		t.Error("yoga catalog muscles must be ignored")
	}
	if _, ok := r.Muscles["DETAIL_OWN"]; ok {
		t.Error("yoga detail muscles must be ignored")
	}
	// Detail fields still come from yoga's own detail record.
	if !r.Found || r.Difficulty != "BEGINNER" {
		t.Errorf("expected yoga detail fields, got %+v", r)
	}
}

func TestBuildYogaMissingPilatesMatchFails(t *testing.T) {
	yoga := testCatalog(garmin.CatalogCategory{
		Key: "BOAT",
		Exercises: []garmin.CatalogExercise{
			{Key: "UNMATCHED_POSE"},
		},
	})
	pilates := testCatalog()
	b := NewDatasetBuilder(ParseTranslations(""), &fakeDetails{}, NewUniverse(), nil)

	_, err := b.BuildYoga(context.Background(), yoga, pilates)
	if err == nil {
		t.Fatal("expected error for missing pilates match")
	}
	if !goerrors.Is(err, collerrors.ErrCrossReferenceMissing) {
		t.Errorf("expected cross-reference error, got %v", err)
	}
}

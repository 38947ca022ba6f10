package collector

import (
	"context"
	"fmt"
	"testing"

	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// fakeSource serves canned run prerequisites.
type fakeSource struct {
	catalogs     map[garmin.Dataset]*garmin.Catalog
	equipment    []garmin.EquipmentCategory
	translations string

	failTranslations bool
}

func (f *fakeSource) FetchCatalog(ctx context.Context, ds garmin.Dataset) (*garmin.Catalog, error) {
	c, ok := f.catalogs[ds]
	if !ok {
		return nil, fmt.Errorf("no catalog for %s", ds)
	}
	return c, nil
}

func (f *fakeSource) FetchEquipment(ctx context.Context) ([]garmin.EquipmentCategory, error) {
	return f.equipment, nil
}

func (f *fakeSource) FetchTranslations(ctx context.Context) (string, error) {
	if f.failTranslations {
		return "", fmt.Errorf("upstream unavailable")
	}
	return f.translations, nil
}

// fakeSink records the exported tables.
type fakeSink struct {
	exported [][]*CategoryTable
	url      string
}

func (f *fakeSink) Export(ctx context.Context, tables []*CategoryTable) (string, error) {
	f.exported = append(f.exported, tables)
	return f.url, nil
}

func newRunSource() *fakeSource {
	return &fakeSource{
		catalogs: map[garmin.Dataset]*garmin.Catalog{
			garmin.DatasetExercises: testCatalog(garmin.CatalogCategory{
				Key: "CARDIO",
				Exercises: []garmin.CatalogExercise{
					{Key: "JUMPING_JACK", PrimaryMuscles: []string{"CORE"}},
					{Key: "BURPEE", PrimaryMuscles: []string{"QUADS"}},
				},
			}),
			garmin.DatasetYoga: testCatalog(garmin.CatalogCategory{
				Key: "BOAT",
				Exercises: []garmin.CatalogExercise{
					{Key: "BOAT_POSE"},
				},
			}),
			garmin.DatasetPilates: testCatalog(garmin.CatalogCategory{
				Key: "BOAT",
				Exercises: []garmin.CatalogExercise{
					{Key: "BOAT_POSE", PrimaryMuscles: []string{"HIPS"}},
				},
			}),
			garmin.DatasetMobility: testCatalog(garmin.CatalogCategory{
				Key: "HIP",
				Exercises: []garmin.CatalogExercise{
					{Key: "HIP_CIRCLES", SecondaryMuscles: []string{"GLUTES"}},
				},
			}),
		},
		equipment: []garmin.EquipmentCategory{
			{
				ExerciseCategoryKey: "CARDIO",
				ExercisesInCategory: []garmin.EquipmentExercise{
					{ExerciseKey: "JUMPING_JACK", EquipmentKeys: []string{"MAT"}},
				},
			},
		},
		translations: "CARDIO_BURPEE=Burpee\nBOAT_BOAT_POSE=Boat Pose\n",
	}
}

func TestRunFullPipeline(t *testing.T) {
	source := newRunSource()
	blobs := newMemBlobStore()
	sink := &fakeSink{url: "https://docs.google.com/spreadsheets/d/abc/edit"}
	c := New(source, &fakeDetails{}, NewSnapshotStore(blobs, "b"), sink, nil)

	result, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if result.SheetURL != sink.url {
		t.Errorf("unexpected sheet URL: %q", result.SheetURL)
	}
	wantCounts := map[string]int{"Exercises": 2, "Yoga": 1, "Pilates": 1, "Mobility": 1}
	for ds, want := range wantCounts {
		if result.RowCounts[ds] != want {
			t.Errorf("row count %s = %d, want %d", ds, result.RowCounts[ds], want)
		}
	}

	if len(sink.exported) != 1 {
		t.Fatalf("expected one export, got %d", len(sink.exported))
	}
	tables := sink.exported[0]

	// Export order is fixed: Exercises, Yoga, Pilates, Mobility.
	wantOrder := []garmin.Dataset{garmin.DatasetExercises, garmin.DatasetYoga, garmin.DatasetPilates, garmin.DatasetMobility}
	for i, ds := range wantOrder {
		if tables[i].Dataset != ds {
			t.Errorf("table %d: expected %s, got %s", i, ds, tables[i].Dataset)
		}
	}

	// Every table shares the run-wide muscle universe, including muscles
	// first seen by later datasets.
	wantMuscles := []string{"CORE", "GLUTES", "HIPS", "QUADS"}
	for _, table := range tables {
		if len(table.MuscleColumns) != len(wantMuscles) {
			t.Fatalf("%s: expected %v, got %v", table.Dataset, wantMuscles, table.MuscleColumns)
		}
		for i := range wantMuscles {
			if table.MuscleColumns[i] != wantMuscles[i] {
				t.Errorf("%s: muscle column %d = %q, want %q", table.Dataset, i, table.MuscleColumns[i], wantMuscles[i])
			}
		}
	}

	// Equipment columns exist only on the Exercises table.
	exercises := tables[0]
	if len(exercises.EquipmentColumns) != 1 || exercises.EquipmentColumns[0] != "MAT" {
		t.Errorf("unexpected equipment columns: %v", exercises.EquipmentColumns)
	}
	for _, table := range tables[1:] {
		if table.EquipmentColumns != nil {
			t.Errorf("%s: expected no equipment columns, got %v", table.Dataset, table.EquipmentColumns)
		}
	}

	// Back-fill: a Mobility row first seen with GLUTES still carries a
	// zero for CORE, and the jack carries its mapped equipment.
	jack := exercises.Rows[0]
	if jack.Equipment["MAT"] != 1 {
		t.Errorf("expected MAT=1 on JUMPING_JACK, got %d", jack.Equipment["MAT"])
	}
	if jack.Name != "CARDIO JUMPING_JACK" {
		t.Errorf("expected fallback name, got %q", jack.Name)
	}
	mobilityRow := tables[3].Rows[0]
	if mobilityRow.Muscles["CORE"] != ScoreAbsent || mobilityRow.Muscles["GLUTES"] != ScoreSecondary {
		t.Errorf("unexpected mobility muscles: %v", mobilityRow.Muscles)
	}

	// Yoga borrowed pilates muscles.
	yogaRow := tables[1].Rows[0]
	if yogaRow.Muscles["HIPS"] != ScorePrimary {
		t.Errorf("expected yoga to borrow pilates HIPS score, got %v", yogaRow.Muscles)
	}

	// Snapshots were saved for all four datasets.
	for _, ds := range garmin.Datasets {
		if _, ok := blobs.objects[fmt.Sprintf("b/snapshots/%s.json", ds)]; !ok {
			t.Errorf("missing snapshot for %s", ds)
		}
	}
}

func TestRunWithoutSink(t *testing.T) {
	c := New(newRunSource(), &fakeDetails{}, NewSnapshotStore(newMemBlobStore(), "b"), nil, nil)

	result, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.SheetURL != "" {
		t.Errorf("expected no sheet URL without a sink, got %q", result.SheetURL)
	}
}

func TestRunTranslationsFailureIsFatal(t *testing.T) {
	source := newRunSource()
	source.failTranslations = true
	c := New(source, &fakeDetails{}, nil, nil, nil)

	if _, err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error when translations cannot be fetched")
	}
}

func TestExportFromSnapshots(t *testing.T) {
	blobs := newMemBlobStore()
	snapshots := NewSnapshotStore(blobs, "b")
	sink := &fakeSink{url: "https://docs.google.com/spreadsheets/d/abc/edit"}

	// First run populates the snapshots without exporting.
	first := New(newRunSource(), &fakeDetails{}, snapshots, nil, nil)
	if _, err := first.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	second := New(newRunSource(), &fakeDetails{}, snapshots, sink, nil)
	result, err := second.ExportFromSnapshots(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if result.SheetURL != sink.url {
		t.Errorf("unexpected sheet URL: %q", result.SheetURL)
	}
	if result.RowCounts["Exercises"] != 2 {
		t.Errorf("unexpected row counts: %v", result.RowCounts)
	}
	if len(sink.exported) != 1 {
		t.Fatalf("expected one export, got %d", len(sink.exported))
	}
}

func TestExportFromSnapshotsMissing(t *testing.T) {
	c := New(newRunSource(), &fakeDetails{}, NewSnapshotStore(newMemBlobStore(), "b"), &fakeSink{}, nil)
	if _, err := c.ExportFromSnapshots(context.Background()); err == nil {
		t.Fatal("expected error when snapshots are absent")
	}
}

// Package collector reconciles Garmin's independently-shaped exercise sources
// into normalized per-category tables ready for spreadsheet publication.
package collector

import (
	"strings"

	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// Score is the tri-state muscle involvement value for one row.
type Score int

const (
	ScoreAbsent    Score = 0
	ScorePrimary   Score = 1
	ScoreSecondary Score = 2
)

// Column names shared with the spreadsheet sink.
const (
	ColName        = "Name"
	ColCategory    = "CATEGORY_GARMIN"
	ColExerciseKey = "NAME_GARMIN"
	ColFound       = "DETAILED_INFO"
	ColImage       = "IMAGE"
	ColURL         = "URL"
	ColDifficulty  = "DIFFICULTY"
	ColDescription = "DESCRIPTION"

	MusclePrefix    = "MUSCLE_"
	EquipmentPrefix = "EQUIPMENT_"
)

// ColumnGroup is the coarse level-1 header label for a column.
type ColumnGroup string

const (
	GroupName      ColumnGroup = "NAME"
	GroupDetail    ColumnGroup = "DETAILED_INFO"
	GroupMuscles   ColumnGroup = "MUSCLE_GROUPS"
	GroupEquipment ColumnGroup = "EQUIPMENT"
)

// Column describes one output column: its group, full name, and the level-2
// header shown beneath the group label. Image marks columns whose reachable
// absolute URLs the sink should render as embedded images.
type Column struct {
	Group  ColumnGroup
	Name   string
	Header string
	Image  bool
}

// Row is one normalized exercise row. Muscles and Equipment stay sparse until
// Finalize back-fills them against the closed universes.
type Row struct {
	Category    string           `json:"category"`
	ExerciseKey string           `json:"exercise_key"`
	Name        string           `json:"name"`
	Found       bool             `json:"found"`
	Image       string           `json:"image,omitempty"`
	URL         string           `json:"url,omitempty"`
	Difficulty  string           `json:"difficulty,omitempty"`
	Description string           `json:"description,omitempty"`
	Muscles     map[string]Score `json:"muscles"`
	Equipment   map[string]int   `json:"equipment,omitempty"`
}

// NewRow creates an empty row for one exercise identity.
func NewRow(category, exerciseKey string) *Row {
	return &Row{
		Category:    category,
		ExerciseKey: exerciseKey,
		Muscles:     make(map[string]Score),
	}
}

// Key is the join key shared by all source documents.
func (r *Row) Key() string {
	return r.Category + "_" + r.ExerciseKey
}

// CategoryTable is the ordered row set for one dataset plus the column
// universes it was finalized against.
type CategoryTable struct {
	Dataset          garmin.Dataset `json:"dataset"`
	Rows             []*Row         `json:"rows"`
	MuscleColumns    []string       `json:"muscle_columns"`
	EquipmentColumns []string       `json:"equipment_columns,omitempty"`
}

// Finalize back-fills every row with zero for each closed-universe member it
// lacks, turning the sparse rows into a fixed-width table. equipmentCols is
// nil for every dataset except Exercises.
func (t *CategoryTable) Finalize(muscleCols, equipmentCols []string) {
	t.MuscleColumns = muscleCols
	t.EquipmentColumns = equipmentCols

	for _, r := range t.Rows {
		if r.Muscles == nil {
			r.Muscles = make(map[string]Score)
		}
		for _, m := range muscleCols {
			if _, ok := r.Muscles[m]; !ok {
				r.Muscles[m] = ScoreAbsent
			}
		}
		if equipmentCols == nil {
			continue
		}
		if r.Equipment == nil {
			r.Equipment = make(map[string]int)
		}
		for _, e := range equipmentCols {
			if _, ok := r.Equipment[e]; !ok {
				r.Equipment[e] = 0
			}
		}
	}
}

// Columns returns the full ordered column set: identity, detail, muscles
// (lexicographic), then equipment (lexicographic, Exercises only).
func (t *CategoryTable) Columns() []Column {
	cols := []Column{
		{Group: GroupName, Name: ColName, Header: ColName},
		{Group: GroupName, Name: ColCategory, Header: ColCategory},
		{Group: GroupName, Name: ColExerciseKey, Header: ColExerciseKey},
		{Group: GroupDetail, Name: ColFound, Header: "FOUND"},
		{Group: GroupDetail, Name: ColImage, Header: ColImage, Image: true},
		{Group: GroupDetail, Name: ColURL, Header: ColURL},
		{Group: GroupDetail, Name: ColDifficulty, Header: ColDifficulty},
		{Group: GroupDetail, Name: ColDescription, Header: ColDescription},
	}
	for _, m := range t.MuscleColumns {
		cols = append(cols, Column{Group: GroupMuscles, Name: MusclePrefix + m, Header: m})
	}
	for _, e := range t.EquipmentColumns {
		cols = append(cols, Column{Group: GroupEquipment, Name: EquipmentPrefix + e, Header: e})
	}
	return cols
}

// HeaderRows produces the two-level header scheme: group labels over concrete
// column names.
func (t *CategoryTable) HeaderRows() ([]string, []string) {
	cols := t.Columns()
	level1 := make([]string, len(cols))
	level2 := make([]string, len(cols))
	for i, c := range cols {
		level1[i] = string(c.Group)
		level2[i] = c.Header
	}
	return level1, level2
}

// Value returns the cell value of one column for one row.
func (t *CategoryTable) Value(r *Row, c Column) interface{} {
	switch c.Name {
	case ColName:
		return r.Name
	case ColCategory:
		return r.Category
	case ColExerciseKey:
		return r.ExerciseKey
	case ColFound:
		return r.Found
	case ColImage:
		return r.Image
	case ColURL:
		return r.URL
	case ColDifficulty:
		return r.Difficulty
	case ColDescription:
		return r.Description
	}
	if muscle, ok := strings.CutPrefix(c.Name, MusclePrefix); ok {
		return int(r.Muscles[muscle])
	}
	if equip, ok := strings.CutPrefix(c.Name, EquipmentPrefix); ok {
		return r.Equipment[equip]
	}
	return ""
}

// IsRenderableImage reports whether a cell value is an absolute URL the sink
// may render as an embedded image.
func IsRenderableImage(v string) bool {
	return strings.HasPrefix(v, "http")
}

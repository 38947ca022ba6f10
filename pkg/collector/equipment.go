package collector

import (
	"github.com/hysterresis/garmin-exercises/pkg/garmin"
)

// EquipmentIndex joins exercise identities to their equipment sets. It is
// built from the exerciseToEquipments document and applied only to the
// Exercises table.
type EquipmentIndex struct {
	mapping map[string][]string
}

// BuildEquipmentIndex parses the equipment document into a per-identity
// lookup and registers every equipment key in the universe.
func BuildEquipmentIndex(doc []garmin.EquipmentCategory, universe *Universe) *EquipmentIndex {
	mapping := make(map[string][]string)
	for _, cat := range doc {
		for _, ex := range cat.ExercisesInCategory {
			universe.Add(ex.EquipmentKeys...)
			key := cat.ExerciseCategoryKey + "_" + ex.ExerciseKey
			mapping[key] = ex.EquipmentKeys
		}
	}
	return &EquipmentIndex{mapping: mapping}
}

// Lookup returns the equipment keys mapped to one exercise identity.
func (idx *EquipmentIndex) Lookup(category, exerciseKey string) []string {
	return idx.mapping[category+"_"+exerciseKey]
}

// Apply marks each mapped equipment item on the table's rows. Unmapped
// universe members are zero-filled later by Finalize.
func (idx *EquipmentIndex) Apply(t *CategoryTable) {
	for _, r := range t.Rows {
		for _, e := range idx.mapping[r.Key()] {
			if r.Equipment == nil {
				r.Equipment = make(map[string]int)
			}
			r.Equipment[e] = 1
		}
	}
}

package garmin

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Dataset names one of the four top-level exercise catalogs Garmin publishes.
type Dataset string

const (
	DatasetExercises Dataset = "Exercises"
	DatasetYoga      Dataset = "Yoga"
	DatasetPilates   Dataset = "Pilates"
	DatasetMobility  Dataset = "Mobility"
)

// Datasets lists all catalogs in collection order.
var Datasets = []Dataset{DatasetExercises, DatasetYoga, DatasetPilates, DatasetMobility}

// CatalogExercise is one exercise entry embedded in a catalog document.
type CatalogExercise struct {
	Key              string   `json:"key"`
	PrimaryMuscles   []string `json:"primaryMuscles,omitempty"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
}

// CatalogCategory is one category block with its exercises in document order.
type CatalogCategory struct {
	Key       string            `json:"key"`
	Exercises []CatalogExercise `json:"exercises"`
}

// Catalog is a decoded catalog document (Exercises.json and friends).
//
// The upstream document keys categories and exercises by JSON object member
// name. Output row order follows catalog iteration order, so decoding goes
// through the raw token stream instead of a Go map, which would destroy it.
type Catalog struct {
	Categories []CatalogCategory `json:"categories"`
}

// Lookup returns the catalog entry for a category/exercise pair.
func (c *Catalog) Lookup(category, exerciseKey string) (*CatalogExercise, bool) {
	for i := range c.Categories {
		if c.Categories[i].Key != category {
			continue
		}
		for j := range c.Categories[i].Exercises {
			if c.Categories[i].Exercises[j].Key == exerciseKey {
				return &c.Categories[i].Exercises[j], true
			}
		}
	}
	return nil, false
}

// UnmarshalJSON decodes the nested categories/exercises objects while
// preserving member order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("catalog document: %w", err)
	}
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return err
		}
		if key != "categories" {
			if err := skipValue(dec); err != nil {
				return err
			}
			continue
		}
		cats, err := decodeCategories(dec)
		if err != nil {
			return err
		}
		c.Categories = cats
	}
	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("catalog document: %w", err)
	}
	return nil
}

func decodeCategories(dec *json.Decoder) ([]CatalogCategory, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	var cats []CatalogCategory
	for dec.More() {
		catKey, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		cat := CatalogCategory{Key: catKey}
		if err := decodeCategoryBody(dec, &cat); err != nil {
			return nil, fmt.Errorf("category %q: %w", catKey, err)
		}
		cats = append(cats, cat)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return cats, nil
}

func decodeCategoryBody(dec *json.Decoder, cat *CatalogCategory) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return err
		}
		if key != "exercises" {
			if err := skipValue(dec); err != nil {
				return err
			}
			continue
		}
		if err := decodeExercises(dec, cat); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func decodeExercises(dec *json.Decoder, cat *CatalogCategory) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		exKey, err := stringToken(dec)
		if err != nil {
			return err
		}
		var body struct {
			PrimaryMuscles   []string `json:"primaryMuscles"`
			SecondaryMuscles []string `json:"secondaryMuscles"`
		}
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("exercise %q: %w", exKey, err)
		}
		cat.Exercises = append(cat.Exercises, CatalogExercise{
			Key:              exKey,
			PrimaryMuscles:   body.PrimaryMuscles,
			SecondaryMuscles: body.SecondaryMuscles,
		})
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return s, nil
}

func skipValue(dec *json.Decoder) error {
	var raw json.RawMessage
	return dec.Decode(&raw)
}

// EquipmentExercise maps one exercise key to its equipment keys.
type EquipmentExercise struct {
	ExerciseKey   string   `json:"exerciseKey"`
	EquipmentKeys []string `json:"equipmentKeys"`
}

// EquipmentCategory is one block of the exerciseToEquipments document.
type EquipmentCategory struct {
	ExerciseCategoryKey string              `json:"exerciseCategoryKey"`
	ExercisesInCategory []EquipmentExercise `json:"exercisesInCategory"`
}

// DetailVideo is one video reference in a detail document.
type DetailVideo struct {
	Thumbnail string `json:"thumbnail"`
}

// DetailDocument is the per-exercise detail payload. Any field may be absent.
type DetailDocument struct {
	Difficulty       string        `json:"difficulty"`
	Description      string        `json:"description"`
	HeroImage        string        `json:"heroImage"`
	Videos           []DetailVideo `json:"videos"`
	PrimaryMuscles   []string      `json:"primaryMuscles"`
	SecondaryMuscles []string      `json:"secondaryMuscles"`
}

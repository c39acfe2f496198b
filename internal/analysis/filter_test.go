package analysis

import (
	"reflect"
	"testing"

	"docpipe/internal/models"
)

func conf(v float64) *float64 {
	return &v
}

func TestFilterByConfidence(t *testing.T) {
	blocks := []models.Block{
		{ID: "a", Kind: models.BlockKindLine, Confidence: conf(95)},
		{ID: "b", Kind: models.BlockKindLine, Confidence: conf(50)},
		{ID: "c", Kind: models.BlockKindLine}, // no confidence, always kept
		{ID: "d", Kind: models.BlockKindWord, Confidence: conf(80)},
	}

	kept := FilterByConfidence(blocks, 80)

	ids := make([]string, 0, len(kept))
	for _, b := range kept {
		ids = append(ids, b.ID)
	}
	want := []string{"a", "c", "d"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected kept ids %v, got %v", want, ids)
	}
}

func TestFilterByConfidence_Idempotent(t *testing.T) {
	blocks := []models.Block{
		{ID: "a", Confidence: conf(95)},
		{ID: "b", Confidence: conf(10)},
		{ID: "c"},
	}

	once := FilterByConfidence(blocks, 80)
	twice := FilterByConfidence(once, 80)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Filtering an already-filtered set changed it: %v vs %v", once, twice)
	}
}

func TestFilterByConfidence_EmptyInput(t *testing.T) {
	if kept := FilterByConfidence(nil, 80); len(kept) != 0 {
		t.Errorf("Expected empty result for nil input, got %v", kept)
	}
}

package analysis

import (
	"testing"

	"docpipe/internal/models"
)

func TestGraph_ChildrenOf(t *testing.T) {
	blocks := []models.Block{
		{ID: "parent", Kind: models.BlockKindLine, Relationships: []models.Relationship{
			{Kind: models.RelationChild, IDs: []string{"w1", "filtered-out", "w2"}},
		}},
		{ID: "w1", Kind: models.BlockKindWord, Text: "hello"},
		{ID: "w2", Kind: models.BlockKindWord, Text: "world"},
	}
	g := NewGraph(blocks)

	children := g.ChildrenOf(&blocks[0])
	if len(children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(children))
	}
	if children[0].ID != "w1" || children[1].ID != "w2" {
		t.Errorf("Expected children w1, w2 in order, got %s, %s", children[0].ID, children[1].ID)
	}
}

func TestGraph_ChildrenOf_FirstChildRelationshipWins(t *testing.T) {
	blocks := []models.Block{
		{ID: "parent", Relationships: []models.Relationship{
			{Kind: models.RelationChild, IDs: []string{"w1"}},
			{Kind: models.RelationChild, IDs: []string{"w2"}},
		}},
		{ID: "w1", Kind: models.BlockKindWord},
		{ID: "w2", Kind: models.BlockKindWord},
	}
	g := NewGraph(blocks)

	children := g.ChildrenOf(&blocks[0])
	if len(children) != 1 || children[0].ID != "w1" {
		t.Errorf("Expected only the first CHILD relationship to be used, got %v", children)
	}
}

func TestGraph_ChildrenOf_NoRelationship(t *testing.T) {
	blocks := []models.Block{{ID: "lonely"}}
	g := NewGraph(blocks)

	if children := g.ChildrenOf(&blocks[0]); len(children) != 0 {
		t.Errorf("Expected no children for a block without relationships, got %v", children)
	}
}

func TestGraph_ValueTargetOf(t *testing.T) {
	blocks := []models.Block{
		{ID: "key", Kind: models.BlockKindKeyValueSet, Relationships: []models.Relationship{
			{Kind: models.RelationValue, IDs: []string{"value"}},
		}},
		{ID: "value", Kind: models.BlockKindKeyValueSet},
	}
	g := NewGraph(blocks)

	target := g.ValueTargetOf(&blocks[0])
	if target == nil || target.ID != "value" {
		t.Errorf("Expected value target 'value', got %v", target)
	}
}

func TestGraph_ValueTargetOf_FilteredOutTarget(t *testing.T) {
	// The VALUE relationship references an id that confidence filtering
	// removed. That is a normal path and must return nil, not an error.
	blocks := []models.Block{
		{ID: "key", Relationships: []models.Relationship{
			{Kind: models.RelationValue, IDs: []string{"gone"}},
		}},
	}
	g := NewGraph(blocks)

	if target := g.ValueTargetOf(&blocks[0]); target != nil {
		t.Errorf("Expected nil for a filtered-out value target, got %v", target)
	}
}

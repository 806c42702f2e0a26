package tree

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
)

func builtTree(t *testing.T) []*domain.TreeNode {
	t.Helper()
	trit := stationAsset(1, 34, 100, 5, "Hangar")
	trit.TypeName = "Tritanium"
	trit.CategoryID = 4

	ship := stationAsset(1001, 587, 1, 350000, "Hangar")
	ship.TypeName = "Rifter"
	ship.CategoryID = domain.CategoryShip
	ship.IsSingleton = true

	return Build([]domain.ResolvedAsset{trit, ship}, domain.ModeAll, emptySnap())
}

func TestFilterPreservesAncestorsWithUnmodifiedTotals(t *testing.T) {
	roots := builtTree(t)

	filtered := Filter(roots, "rifter", "")
	if len(filtered) != 1 {
		t.Fatalf("len(filtered) = %d, want 1", len(filtered))
	}

	region := filtered[0]
	system := region.Children[0]
	station := system.Children[0]
	if len(station.Children) != 1 || station.Children[0].Name != "Rifter" {
		t.Fatalf("surviving leaves = %+v, want only Rifter", station.Children)
	}

	// Ancestor totals still reflect the full underlying data, not the
	// filtered subset.
	wantValue := decimal.NewFromInt(850000)
	for _, n := range []*domain.TreeNode{region, system, station} {
		if n.TotalCount != 101 || !n.TotalValue.Equal(wantValue) {
			t.Errorf("%s totals = %d/%s, want 101/850000", n.NodeType, n.TotalCount, n.TotalValue)
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	roots := builtTree(t)
	station := roots[0].Children[0].Children[0]
	childrenBefore := len(station.Children)

	Filter(roots, "rifter", "")

	if len(station.Children) != childrenBefore {
		t.Error("filtering mutated the input tree")
	}
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	roots := builtTree(t)

	if got := Filter(roots, "TRITAN", ""); len(got) != 1 {
		t.Error("case-insensitive substring match failed")
	}
	if got := Filter(roots, "zzz-no-match", ""); len(got) != 0 {
		t.Error("non-matching search returned nodes")
	}
}

func TestFilterByCategory(t *testing.T) {
	roots := builtTree(t)

	filtered := Filter(roots, "", "Ship")
	if len(filtered) != 1 {
		t.Fatalf("len(filtered) = %d, want 1", len(filtered))
	}
	station := filtered[0].Children[0].Children[0]
	if len(station.Children) != 1 || station.Children[0].Name != "Rifter" {
		t.Errorf("category filter kept %+v, want only the ship", station.Children)
	}

	// Search and category combine conjunctively.
	if got := Filter(roots, "tritanium", "Ship"); len(got) != 0 {
		t.Error("search+category mismatch still returned nodes")
	}
}

func TestFilterEmptyPredicateReturnsInput(t *testing.T) {
	roots := builtTree(t)
	if got := Filter(roots, "  ", ""); len(got) != len(roots) {
		t.Error("blank search did not return the full tree")
	}
}

func TestMarkSourceFlags(t *testing.T) {
	roots := builtTree(t)

	MarkSourceFlags(roots, map[int64]bool{1001: true}, map[int64]bool{1: true})

	station := roots[0].Children[0].Children[0]
	var tritLeaf, shipLeaf *domain.TreeNode
	for _, leaf := range station.Children {
		switch leaf.Name {
		case "Tritanium":
			tritLeaf = leaf
		case "Rifter":
			shipLeaf = leaf
		}
	}

	if tritLeaf == nil || shipLeaf == nil {
		t.Fatal("expected both leaves in built tree")
	}
	if !shipLeaf.IsInContract || shipLeaf.IsInMarketOrder {
		t.Errorf("ship flags = contract:%v order:%v, want contract only", shipLeaf.IsInContract, shipLeaf.IsInMarketOrder)
	}
	if !tritLeaf.IsInMarketOrder || tritLeaf.IsInContract {
		t.Errorf("tritanium flags = contract:%v order:%v, want order only", tritLeaf.IsInContract, tritLeaf.IsInMarketOrder)
	}
}

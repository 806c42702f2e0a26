package tree

import (
	"strings"

	"github.com/samber/lo"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/refdata"
)

// Filter prunes a built tree by free-text search and/or category name. A node
// survives when it is a leaf matching the predicate or has at least one
// surviving descendant; every ancestor of a surviving leaf is preserved down
// to the root. Totals on surviving nodes are left untouched — filtering is a
// display-time view over the full aggregation, not a re-aggregation. The
// input tree is never mutated; surviving interior nodes are shallow-copied.
func Filter(roots []*domain.TreeNode, search, category string) []*domain.TreeNode {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" && category == "" {
		return roots
	}
	return lo.FilterMap(roots, func(n *domain.TreeNode, _ int) (*domain.TreeNode, bool) {
		return keep(n, search, category)
	})
}

func keep(n *domain.TreeNode, search, category string) (*domain.TreeNode, bool) {
	if n.IsLeaf() {
		if leafMatches(n, search, category) {
			return n, true
		}
		return nil, false
	}

	survivors := lo.FilterMap(n.Children, func(c *domain.TreeNode, _ int) (*domain.TreeNode, bool) {
		return keep(c, search, category)
	})
	if len(survivors) == 0 {
		return nil, false
	}

	clone := *n
	clone.Children = survivors
	return &clone, true
}

func leafMatches(n *domain.TreeNode, search, category string) bool {
	if search != "" && !strings.Contains(strings.ToLower(n.Name), search) {
		return false
	}
	if category != "" && !strings.EqualFold(refdata.CategoryName(n.CategoryID), category) {
		return false
	}
	return true
}

// MarkSourceFlags walks a built tree once and flags any leaf whose underlying
// item id appears in the supplied contract or market-order id sets. An item
// shown under its physical location is thereby cross-referenced as also being
// listed elsewhere, without being duplicated in the tree.
func MarkSourceFlags(roots []*domain.TreeNode, contractItemIDs, orderItemIDs map[int64]bool) {
	for _, n := range roots {
		markNode(n, contractItemIDs, orderItemIDs)
	}
}

func markNode(n *domain.TreeNode, contractItemIDs, orderItemIDs map[int64]bool) {
	if n.IsLeaf() {
		for _, id := range n.ItemIDs {
			if contractItemIDs[id] {
				n.IsInContract = true
			}
			if orderItemIDs[id] {
				n.IsInMarketOrder = true
			}
		}
		return
	}
	for _, c := range n.Children {
		markNode(c, contractItemIDs, orderItemIDs)
	}
}

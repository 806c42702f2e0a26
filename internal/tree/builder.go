// Package tree folds resolved assets into the region → system →
// station/structure → container/division → item hierarchy with exact
// count/value/volume totals at every level, and prunes built trees for
// display-time search.
package tree

import (
	"fmt"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/refdata"
)

// Build groups the mode-eligible subset of assets into a forest of region
// roots. Grouping levels are materialized lazily — a node exists only when at
// least one asset lands under it — and totals are accumulated bottom-up as
// leaves are inserted. Node ids are stable composites of the path segments, so
// rebuilding from unchanged inputs yields structurally identical trees.
func Build(assets []domain.ResolvedAsset, mode domain.Mode, snap refdata.Snapshot) []*domain.TreeNode {
	b := &builder{snap: snap, index: make(map[string]*domain.TreeNode)}
	for _, a := range assets {
		if !mode.Includes(a.Flags) {
			continue
		}
		b.insert(a)
	}
	return b.roots
}

type builder struct {
	snap  refdata.Snapshot
	roots []*domain.TreeNode
	index map[string]*domain.TreeNode
}

func (b *builder) insert(a domain.ResolvedAsset) {
	path := b.groupingPath(a)

	leafParent := path[len(path)-1]
	leaf := b.leafFor(leafParent, a)

	leaf.TotalCount += a.Quantity
	leaf.TotalValue = domain.SafeSum(leaf.TotalValue, a.TotalValue)
	leaf.TotalVolume = domain.SafeSum(leaf.TotalVolume, a.TotalVolume)
	leaf.ItemIDs = append(leaf.ItemIDs, a.ItemID)

	for _, n := range path {
		n.TotalCount += a.Quantity
		n.TotalValue = domain.SafeSum(n.TotalValue, a.TotalValue)
		n.TotalVolume = domain.SafeSum(n.TotalVolume, a.TotalVolume)
	}
}

// groupingPath materializes (or finds) the chain of grouping nodes for one
// asset and returns it ordered root-first.
func (b *builder) groupingPath(a domain.ResolvedAsset) []*domain.TreeNode {
	regionName := a.RegionName
	if regionName == "" {
		regionName = "Unknown Region"
	}
	systemName := a.SystemName
	if systemName == "" {
		systemName = "Unknown System"
	}

	regionID := fmt.Sprintf("region:%d", a.RegionID)
	region := b.node(nil, regionID, domain.NodeRegion, regionName, a.RegionName)

	systemID := fmt.Sprintf("%s|system:%d", regionID, a.SystemID)
	system := b.node(region, systemID, domain.NodeSystem, systemName, a.RegionName)

	stationID := fmt.Sprintf("%s|station:%d", systemID, a.RootLocationID)
	station := b.node(system, stationID, domain.NodeStation, a.RootLocationName, a.RegionName)

	path := []*domain.TreeNode{region, system, station}

	switch {
	case a.Flags.InOffice:
		officeID := stationID + "|office"
		office := b.node(station, officeID, domain.NodeOffice, "Office", a.RegionName)
		path = append(path, office)

		division := domain.DivisionNumber(a.LocationFlag)
		if division == 0 {
			division = domain.DivisionNumber(a.RootFlag)
		}
		if division > 0 {
			divID := fmt.Sprintf("%s|division:%d", officeID, division)
			div := b.node(office, divID, domain.NodeDivision, fmt.Sprintf("Division %d", division), a.RegionName)
			div.DivisionNumber = division
			path = append(path, div)
		}

	case len(a.ParentChain) > 0:
		// The outermost ancestor is the container (or ship) the asset
		// ultimately sits in; intermediate nesting collapses into it.
		outer := a.ParentChain[len(a.ParentChain)-1]
		nodeType := domain.NodeContainer
		if b.snap.CategoryOf(outer.TypeID) == domain.CategoryShip {
			nodeType = domain.NodeShip
		}
		contID := fmt.Sprintf("%s|%s:%d", stationID, nodeType, outer.ItemID)
		cont := b.node(station, contID, nodeType, b.containerName(outer), a.RegionName)
		cont.TypeID = outer.TypeID
		cont.CategoryID = b.snap.CategoryOf(outer.TypeID)
		path = append(path, cont)
	}

	return path
}

// leafFor finds or creates the leaf under parent. Singleton items stay
// individual nodes; fungible items of the same type and blueprint-copy status
// collapse into one stack.
func (b *builder) leafFor(parent *domain.TreeNode, a domain.ResolvedAsset) *domain.TreeNode {
	name := a.TypeName
	if a.CustomName != "" {
		name = a.CustomName
	}

	var id string
	nodeType := domain.NodeStack
	switch {
	case a.IsSingleton:
		nodeType = domain.NodeItem
		id = fmt.Sprintf("%s|item:%d", parent.ID, a.ItemID)
	default:
		bpc := 0
		if a.IsBlueprintCopy {
			bpc = 1
		}
		// Different location flags stay separate rows: a sell-order line
		// never merges into a hangar stack of the same type.
		id = fmt.Sprintf("%s|stack:%d:%d:%s", parent.ID, a.TypeID, bpc, a.LocationFlag)
	}

	if existing, ok := b.index[id]; ok {
		return existing
	}

	leaf := &domain.TreeNode{
		ID:              id,
		NodeType:        nodeType,
		Name:            name,
		RegionName:      a.RegionName,
		TypeID:          a.TypeID,
		CategoryID:      a.CategoryID,
		IsBlueprintCopy: a.IsBlueprintCopy,
	}
	b.index[id] = leaf
	parent.Children = append(parent.Children, leaf)
	return leaf
}

// node finds or creates a grouping node under parent (nil for a region root).
func (b *builder) node(parent *domain.TreeNode, id string, nodeType domain.NodeType, name, regionName string) *domain.TreeNode {
	if existing, ok := b.index[id]; ok {
		if existing.RegionName == "" && regionName != "" {
			existing.RegionName = regionName
		}
		return existing
	}

	n := &domain.TreeNode{ID: id, NodeType: nodeType, Name: name, RegionName: regionName}
	b.index[id] = n
	if parent == nil {
		b.roots = append(b.roots, n)
	} else {
		parent.Children = append(parent.Children, n)
	}
	return n
}

func (b *builder) containerName(rec domain.AssetRecord) string {
	if rec.CustomName != "" {
		return rec.CustomName
	}
	if t, ok := b.snap.GetType(rec.TypeID); ok {
		return t.Name
	}
	return fmt.Sprintf("Container %d", rec.ItemID)
}

package tree

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/refdata"
)

func emptySnap() refdata.Snapshot {
	return refdata.NewStore().Snapshot()
}

func stationAsset(itemID, typeID int64, qty int64, unitPrice int64, flag string) domain.ResolvedAsset {
	price := decimal.NewFromInt(unitPrice)
	return domain.ResolvedAsset{
		ItemID:           itemID,
		TypeID:           typeID,
		RootLocationID:   60003760,
		RootLocationType: domain.RootStation,
		RootLocationName: "Jita IV - Moon 4 - Caldari Navy Assembly Plant",
		RootFlag:         flag,
		SystemID:         30000142,
		SystemName:       "Jita",
		RegionID:         10000002,
		RegionName:       "The Forge",
		TypeName:         "Test Item",
		Quantity:         qty,
		Price:            price,
		TotalValue:       domain.SafeScale(price, qty),
		LocationFlag:     flag,
		Flags:            domain.ModeFlags{InHangar: flag == "Hangar", InItemHangar: flag == "Hangar"},
	}
}

// One real hangar stack (3 @ 1000) plus one sell-order line (2 @ 1200) of the
// same type must aggregate to a station total of 5 items / 5400 ISK with two
// distinct leaves, since the rows carry different location flags.
func TestBuildHangarPlusOrderLine(t *testing.T) {
	hangar := stationAsset(100, 200, 3, 1000, "Hangar")
	order := stationAsset(6000000001, 200, 2, 1200, domain.FlagSellOrder)
	order.Flags = domain.ModeFlags{IsMarketOrder: true}

	roots := Build([]domain.ResolvedAsset{hangar, order}, domain.ModeAll, emptySnap())
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1 region", len(roots))
	}

	region := roots[0]
	system := region.Children[0]
	station := system.Children[0]

	if station.NodeType != domain.NodeStation {
		t.Fatalf("station NodeType = %q", station.NodeType)
	}
	if station.TotalCount != 5 {
		t.Errorf("station TotalCount = %d, want 5", station.TotalCount)
	}
	if !station.TotalValue.Equal(decimal.NewFromInt(5400)) {
		t.Errorf("station TotalValue = %s, want 5400", station.TotalValue)
	}
	if len(station.Children) != 2 {
		t.Fatalf("station has %d leaves, want 2 (hangar stack vs. order line)", len(station.Children))
	}
	if station.Children[0].ID == station.Children[1].ID {
		t.Error("hangar stack and order line share a node id")
	}

	// The same totals propagate unchanged to region and system.
	for _, n := range []*domain.TreeNode{region, system} {
		if n.TotalCount != 5 || !n.TotalValue.Equal(decimal.NewFromInt(5400)) {
			t.Errorf("%s totals = %d/%s, want 5/5400", n.NodeType, n.TotalCount, n.TotalValue)
		}
	}
}

func TestBuildStacksFungibleItems(t *testing.T) {
	a := stationAsset(1, 34, 100, 5, "Hangar")
	b := stationAsset(2, 34, 50, 5, "Hangar")

	roots := Build([]domain.ResolvedAsset{a, b}, domain.ModeAll, emptySnap())
	station := roots[0].Children[0].Children[0]
	if len(station.Children) != 1 {
		t.Fatalf("station has %d leaves, want 1 merged stack", len(station.Children))
	}
	stack := station.Children[0]
	if stack.NodeType != domain.NodeStack {
		t.Errorf("NodeType = %q, want stack", stack.NodeType)
	}
	if stack.TotalCount != 150 {
		t.Errorf("stack TotalCount = %d, want 150", stack.TotalCount)
	}
	if !reflect.DeepEqual(stack.ItemIDs, []int64{1, 2}) {
		t.Errorf("stack ItemIDs = %v, want [1 2]", stack.ItemIDs)
	}
}

func TestBuildBlueprintCopySeparateStack(t *testing.T) {
	original := stationAsset(1, 1002, 1, 0, "Hangar")
	copyRecord := stationAsset(2, 1002, 1, 0, "Hangar")
	copyRecord.IsBlueprintCopy = true

	roots := Build([]domain.ResolvedAsset{original, copyRecord}, domain.ModeAll, emptySnap())
	station := roots[0].Children[0].Children[0]
	if len(station.Children) != 2 {
		t.Errorf("originals and copies merged into %d stacks, want 2", len(station.Children))
	}
}

func TestBuildSingletonStaysIndividual(t *testing.T) {
	shipA := stationAsset(1001, 587, 1, 350000, "Hangar")
	shipA.IsSingleton = true
	shipB := stationAsset(1002, 587, 1, 350000, "Hangar")
	shipB.IsSingleton = true

	roots := Build([]domain.ResolvedAsset{shipA, shipB}, domain.ModeAll, emptySnap())
	station := roots[0].Children[0].Children[0]
	if len(station.Children) != 2 {
		t.Fatalf("singletons merged: %d leaves, want 2", len(station.Children))
	}
	for _, leaf := range station.Children {
		if leaf.NodeType != domain.NodeItem {
			t.Errorf("singleton leaf NodeType = %q, want item", leaf.NodeType)
		}
	}
}

func TestBuildModeFiltersEligibility(t *testing.T) {
	hangar := stationAsset(1, 34, 10, 5, "Hangar")
	order := stationAsset(6000000001, 34, 2, 5, domain.FlagSellOrder)
	order.Flags = domain.ModeFlags{IsMarketOrder: true}

	roots := Build([]domain.ResolvedAsset{hangar, order}, domain.ModeOrders, emptySnap())
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	if roots[0].TotalCount != 2 {
		t.Errorf("orders-mode region TotalCount = %d, want 2", roots[0].TotalCount)
	}

	assetsOnly := Build([]domain.ResolvedAsset{hangar, order}, domain.ModeAssets, emptySnap())
	if assetsOnly[0].TotalCount != 10 {
		t.Errorf("assets-mode region TotalCount = %d, want 10", assetsOnly[0].TotalCount)
	}
}

func TestBuildOfficeDivisionPath(t *testing.T) {
	a := stationAsset(11, 34, 5, 10, "CorpSAG2")
	a.Flags = domain.ModeFlags{InOffice: true}
	a.ParentChain = []domain.AssetRecord{{ItemID: 10, TypeID: domain.OfficeTypeID, LocationFlag: "OfficeFolder"}}
	a.RootFlag = "OfficeFolder"

	roots := Build([]domain.ResolvedAsset{a}, domain.ModeAll, emptySnap())
	station := roots[0].Children[0].Children[0]
	office := station.Children[0]
	if office.NodeType != domain.NodeOffice {
		t.Fatalf("NodeType = %q, want office", office.NodeType)
	}
	division := office.Children[0]
	if division.NodeType != domain.NodeDivision || division.DivisionNumber != 2 {
		t.Fatalf("division = %q/%d, want division/2", division.NodeType, division.DivisionNumber)
	}
	if division.TotalCount != 5 || office.TotalCount != 5 {
		t.Errorf("office/division totals = %d/%d, want 5/5", office.TotalCount, division.TotalCount)
	}
}

func TestBuildContainerLevelFromChain(t *testing.T) {
	snapStore := refdata.NewStore()
	snapStore.PutTypes(
		refdata.TypeInfo{TypeID: 587, Name: "Rifter", CategoryID: domain.CategoryShip},
		refdata.TypeInfo{TypeID: 3467, Name: "Small Standard Container", CategoryID: 2},
	)
	snap := snapStore.Snapshot()

	inContainer := stationAsset(2, 34, 50, 5, "Unlocked")
	inContainer.ParentChain = []domain.AssetRecord{{ItemID: 1, TypeID: 3467, LocationFlag: "Hangar", CustomName: "Loot Box"}}
	inContainer.RootFlag = "Hangar"

	inShip := stationAsset(3, 34, 20, 5, "Cargo")
	inShip.ParentChain = []domain.AssetRecord{{ItemID: 9, TypeID: 587, LocationFlag: "Hangar"}}
	inShip.RootFlag = "Hangar"

	roots := Build([]domain.ResolvedAsset{inContainer, inShip}, domain.ModeAll, snap)
	station := roots[0].Children[0].Children[0]
	if len(station.Children) != 2 {
		t.Fatalf("station has %d children, want container + ship", len(station.Children))
	}

	cont := station.Children[0]
	if cont.NodeType != domain.NodeContainer || cont.Name != "Loot Box" {
		t.Errorf("container node = %q/%q, want container/Loot Box", cont.NodeType, cont.Name)
	}
	ship := station.Children[1]
	if ship.NodeType != domain.NodeShip || ship.Name != "Rifter" {
		t.Errorf("ship node = %q/%q, want ship/Rifter", ship.NodeType, ship.Name)
	}
}

func TestBuildConservation(t *testing.T) {
	assets := []domain.ResolvedAsset{
		stationAsset(1, 34, 100, 5, "Hangar"),
		stationAsset(2, 34, 50, 5, "Hangar"),
		stationAsset(3, 35, 20, 12, "Hangar"),
	}
	other := stationAsset(4, 36, 7, 3, "Hangar")
	other.SystemID = 30002187
	other.SystemName = "Amarr"
	other.RegionID = 10000043
	other.RegionName = "Domain"
	other.RootLocationID = 60008494
	other.RootLocationName = "Amarr VIII (Oris) - Emperor Family Academy"
	assets = append(assets, other)

	roots := Build(assets, domain.ModeAll, emptySnap())

	var walk func(n *domain.TreeNode)
	walk = func(n *domain.TreeNode) {
		if len(n.Children) == 0 {
			return
		}
		var count int64
		value := decimal.Zero
		for _, c := range n.Children {
			count += c.TotalCount
			value = value.Add(c.TotalValue)
			walk(c)
		}
		if count != n.TotalCount {
			t.Errorf("node %s TotalCount = %d, children sum = %d", n.ID, n.TotalCount, count)
		}
		if !value.Equal(n.TotalValue) {
			t.Errorf("node %s TotalValue = %s, children sum = %s", n.ID, n.TotalValue, value)
		}
	}

	var grand int64
	for _, r := range roots {
		walk(r)
		grand += r.TotalCount
	}
	if grand != 177 {
		t.Errorf("grand TotalCount = %d, want 177 (sum of all quantities)", grand)
	}
}

func TestBuildStableIDsAcrossRebuilds(t *testing.T) {
	assets := []domain.ResolvedAsset{
		stationAsset(1, 34, 100, 5, "Hangar"),
		stationAsset(1001, 587, 1, 350000, "Hangar"),
	}
	assets[1].IsSingleton = true

	first := Build(assets, domain.ModeAll, emptySnap())
	second := Build(assets, domain.ModeAll, emptySnap())
	if !reflect.DeepEqual(first, second) {
		t.Error("rebuilding from unchanged inputs produced a structurally different tree")
	}
}

func TestBuildUnknownRegionPlaceholder(t *testing.T) {
	a := stationAsset(1, 34, 10, 5, "Hangar")
	a.RegionID = 0
	a.RegionName = ""
	a.SystemID = 0
	a.SystemName = ""

	roots := Build([]domain.ResolvedAsset{a}, domain.ModeAll, emptySnap())
	if roots[0].Name != "Unknown Region" {
		t.Errorf("region name = %q, want Unknown Region", roots[0].Name)
	}
	if roots[0].Children[0].Name != "Unknown System" {
		t.Errorf("system name = %q, want Unknown System", roots[0].Children[0].Name)
	}
}

// Package resolver normalizes raw asset records into resolved entities: each
// record's parent-container chain is walked to its root, the root's physical
// location is classified, storage-context flags are computed, and market value
// and volume are attached. The whole pass is a deterministic function of the
// record set and the reference snapshot; missing reference data degrades to
// placeholders and zeros, never to an error.
package resolver

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/refdata"
)

// maxChainDepth bounds the parent walk. Real container nesting is shallow
// (station > office > container > item); anything deeper is corrupt data.
const maxChainDepth = 64

// PriceSource resolves a unit price for one item.
type PriceSource interface {
	ItemPrice(typeID, itemID int64, isBlueprintCopy bool) decimal.Decimal
}

// Pass carries the per-invocation inputs shared by every record resolution:
// the owner, an immutable reference snapshot, a price table, and the owner's
// starbase-to-moon anchoring table.
type Pass struct {
	Owner    domain.Owner
	Snapshot refdata.Snapshot
	Prices   PriceSource
	Moons    domain.StarbaseMoons
}

// ResolveAll resolves every record of the pass. The item-id lookup map is
// built once over the full record set; every input record yields exactly one
// output entity.
func (p Pass) ResolveAll(records []domain.AssetRecord) []domain.ResolvedAsset {
	byItem := lo.SliceToMap(records, func(r domain.AssetRecord) (int64, domain.AssetRecord) {
		return r.ItemID, r
	})

	resolved := make([]domain.ResolvedAsset, 0, len(records))
	for _, rec := range records {
		resolved = append(resolved, p.Resolve(rec, byItem))
	}
	return resolved
}

// Resolve normalizes a single record against the pass inputs.
func (p Pass) Resolve(rec domain.AssetRecord, byItem map[int64]domain.AssetRecord) domain.ResolvedAsset {
	chain, orphaned := p.walkChain(rec, byItem)

	root := rec
	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}

	place, rootLocationID := p.resolveRoot(root)

	typeInfo, typeKnown := p.Snapshot.GetType(rec.TypeID)
	typeName := typeInfo.Name
	if !typeKnown {
		typeName = fmt.Sprintf("Type %d", rec.TypeID)
	}

	price := p.Prices.ItemPrice(rec.TypeID, rec.ItemID, rec.IsBlueprintCopy)
	volume := typeInfo.EffectiveVolume()

	return domain.ResolvedAsset{
		ItemID:     rec.ItemID,
		TypeID:     rec.TypeID,
		CategoryID: typeInfo.CategoryID,
		GroupID:    typeInfo.GroupID,

		RootLocationID:    rootLocationID,
		RootLocationType:  place.Kind,
		RootLocationName:  place.Name,
		RootFlag:          root.LocationFlag,
		SystemID:          place.SystemID,
		SystemName:        place.SystemName,
		RegionID:          place.RegionID,
		RegionName:        place.RegionName,
		ParentChain:       chain,
		HasOrphanedParent: orphaned,

		TypeName:    typeName,
		Quantity:    rec.Quantity,
		Price:       price,
		TotalValue:  domain.SafeScale(price, rec.Quantity),
		Volume:      volume,
		TotalVolume: domain.SafeScale(volume, rec.Quantity),

		Flags: p.modeFlags(rec, root, chain),

		OwnerKey:        p.Owner.Key(),
		CustomName:      rec.CustomName,
		LocationFlag:    rec.LocationFlag,
		IsSingleton:     rec.IsSingleton,
		IsBlueprintCopy: rec.IsBlueprintCopy,
	}
}

// walkChain follows the parent-container chain of rec to its root, returning
// the ordered nearest-to-farthest ancestors. The walk stops when the current
// ancestor no longer points at an item, when the parent is missing from the
// record set, or when an item id repeats. A missing parent that is also not
// resolvable as a known location marks the entity orphaned; cycles do too.
func (p Pass) walkChain(rec domain.AssetRecord, byItem map[int64]domain.AssetRecord) ([]domain.AssetRecord, bool) {
	var chain []domain.AssetRecord
	visited := map[int64]bool{rec.ItemID: true}

	cur := rec
	for cur.LocationType == domain.LocationTypeItem {
		parent, ok := byItem[cur.LocationID]
		if !ok {
			orphaned := !p.Snapshot.HasStructure(cur.LocationID) && !p.Snapshot.HasLocation(cur.LocationID)
			return chain, orphaned
		}
		if visited[parent.ItemID] || len(chain) >= maxChainDepth {
			// Cycle guard. Valid data never loops; degrade instead of spinning.
			return chain, true
		}
		visited[parent.ItemID] = true
		chain = append(chain, parent)
		cur = parent
	}
	return chain, false
}

// resolveRoot classifies the physical location of the chain root and returns
// the resolved place together with the id the root is keyed by.
func (p Pass) resolveRoot(root domain.AssetRecord) (refdata.Place, int64) {
	if root.LocationID >= domain.StructureIDThreshold {
		return p.Snapshot.ResolvePlace(root.LocationID), root.LocationID
	}

	if root.LocationType == domain.LocationTypeSolarSystem {
		switch p.Snapshot.CategoryOf(root.TypeID) {
		case domain.CategoryStructure:
			// The root is itself a deployed structure, keyed by its own item id.
			return p.deployedStructurePlace(root.ItemID), root.ItemID
		case domain.CategoryStarbase:
			if moonID, ok := p.Moons[root.ItemID]; ok {
				return p.starbasePlace(moonID), moonID
			}
			return p.Snapshot.ResolveSystem(root.LocationID), root.LocationID
		default:
			return p.Snapshot.ResolveSystem(root.LocationID), root.LocationID
		}
	}

	return p.Snapshot.ResolvePlace(root.LocationID), root.LocationID
}

func (p Pass) deployedStructurePlace(itemID int64) refdata.Place {
	if st, ok := p.Snapshot.GetStructure(itemID); ok {
		return refdata.Place{
			Kind:       domain.RootStructure,
			Name:       st.Name,
			SystemID:   st.SolarSystemID,
			SystemName: st.SolarSystemName,
			RegionID:   st.RegionID,
			RegionName: st.RegionName,
		}
	}
	return refdata.Place{
		Kind: domain.RootStructure,
		Name: fmt.Sprintf("Structure %d", itemID),
	}
}

// starbasePlace resolves the moon a starbase is anchored at. The tower floats
// in space, so the root stays a solar-system location named after the moon.
func (p Pass) starbasePlace(moonID int64) refdata.Place {
	loc, ok := p.Snapshot.GetLocation(moonID)
	if !ok {
		return refdata.Place{
			Kind: domain.RootSolarSystem,
			Name: fmt.Sprintf("Location %d", moonID),
		}
	}
	return refdata.Place{
		Kind:       domain.RootSolarSystem,
		Name:       loc.Name,
		SystemID:   loc.SolarSystemID,
		SystemName: loc.SolarSystemName,
		RegionID:   loc.RegionID,
		RegionName: loc.RegionName,
	}
}

// modeFlags computes the storage classification of one record.
func (p Pass) modeFlags(rec, root domain.AssetRecord, chain []domain.AssetRecord) domain.ModeFlags {
	rootFlag := root.LocationFlag
	isShip := p.Snapshot.CategoryOf(rec.TypeID) == domain.CategoryShip

	inHangar := domain.IsHangarFlag(rootFlag)

	inOffice := lo.SomeBy(chain, func(a domain.AssetRecord) bool {
		return a.TypeID == domain.OfficeTypeID
	})

	inStructure := len(chain) > 0 &&
		p.Snapshot.CategoryOf(root.TypeID) == domain.CategoryStructure

	ownedStructure := p.Snapshot.IsOwnedStructure(rec.ItemID)
	if !ownedStructure && len(chain) > 0 {
		// Installed in or carried aboard a structure the owner holds, as
		// opposed to merely docked at someone else's.
		ownedStructure = p.Snapshot.IsOwnedStructure(chain[0].ItemID) &&
			domain.IsFittedOrContentFlag(rec.LocationFlag)
	}

	return domain.ModeFlags{
		InHangar:         inHangar,
		InShipHangar:     inHangar && isShip,
		InItemHangar:     inHangar && !isShip,
		InDeliveries:     domain.IsDeliveriesFlag(rootFlag),
		InAssetSafety:    domain.IsAssetSafetyFlag(rootFlag),
		InOffice:         inOffice,
		InStructure:      inStructure,
		IsContract:       rec.LocationFlag == domain.FlagInContract,
		IsMarketOrder:    rec.LocationFlag == domain.FlagSellOrder || rec.LocationFlag == domain.FlagBuyOrder,
		IsIndustryJob:    rec.LocationFlag == domain.FlagIndustryJob,
		IsOwnedStructure: ownedStructure,
		IsActiveShip:     rootFlag == domain.FlagActiveShip,
	}
}

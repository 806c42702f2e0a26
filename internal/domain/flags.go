package domain

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// StructureIDThreshold is the boundary between in-game catalog location ids
// (stations, systems, regions) and player-structure ids. Any location id at or
// above the threshold belongs to a player-owned structure.
const StructureIDThreshold int64 = 1_000_000_000_000

// Fixed category ids from the type catalog.
const (
	CategoryShip      int64 = 6
	CategoryBlueprint int64 = 9
	CategoryStarbase  int64 = 23
	CategoryStructure int64 = 65
)

// OfficeTypeID is the reserved type id of the corporation office container.
const OfficeTypeID int64 = 27

// AssetSafetyWrapTypeID is the container type items are wrapped in after
// asset safety kicks in.
const AssetSafetyWrapTypeID int64 = 60

var hangarFlags = []string{
	"Hangar", "HangarAll",
	"CorpSAG1", "CorpSAG2", "CorpSAG3", "CorpSAG4", "CorpSAG5", "CorpSAG6", "CorpSAG7",
}

var deliveriesFlags = []string{"Deliveries", "CorpMarket"}

var assetSafetyFlags = []string{"AssetSafety"}

var contentFlags = []string{
	"Cargo", "DroneBay", "FighterBay", "FleetHangar", "ShipHangar",
	"SpecializedFuelBay", "StructureFuel",
}

var fittedPrefixes = []string{
	"HiSlot", "MedSlot", "LoSlot", "RigSlot", "SubSystemSlot", "ServiceSlot",
}

// IsHangarFlag reports whether the flag places an item directly in a personal
// or corporation hangar.
func IsHangarFlag(flag string) bool {
	return lo.Contains(hangarFlags, flag)
}

// IsDeliveriesFlag reports whether the flag places an item in a delivery bay.
func IsDeliveriesFlag(flag string) bool {
	return lo.Contains(deliveriesFlags, flag)
}

// IsAssetSafetyFlag reports whether the flag places an item in asset safety.
func IsAssetSafetyFlag(flag string) bool {
	return lo.Contains(assetSafetyFlags, flag)
}

// IsFittedOrContentFlag reports whether the flag means the item is installed
// in, or carried aboard, its immediate container.
func IsFittedOrContentFlag(flag string) bool {
	if lo.Contains(contentFlags, flag) {
		return true
	}
	return lo.SomeBy(fittedPrefixes, func(p string) bool {
		return strings.HasPrefix(flag, p)
	})
}

// DivisionNumber extracts the corporation hangar division from a CorpSAGn
// flag. Returns 0 for non-division flags.
func DivisionNumber(flag string) int {
	rest, ok := strings.CutPrefix(flag, "CorpSAG")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 7 {
		return 0
	}
	return n
}

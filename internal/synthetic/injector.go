// Package synthetic manufactures resolver-compatible asset records for items
// that do not originate from the asset endpoint: the ship currently being
// flown, open market orders, items attached to in-flight contracts, and
// industry job outputs. Synthetic records are always chain roots; their
// pseudo location flag tells the resolver and aggregator apart from real
// hangar inventory.
package synthetic

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
)

// contractRecordSpan bounds the record-id component of a synthetic contract
// item id, keeping ids unique per contract line without colliding across
// contracts.
const contractRecordSpan = 100_000

// ScopeChecker answers whether an owner's stored authorization still carries
// a given scope.
type ScopeChecker interface {
	OwnerHasScope(ownerKey, scope string) bool
}

// ShipOutcome describes why an active-ship record was or was not injected.
type ShipOutcome int

const (
	// ShipInjected means a synthetic record was produced.
	ShipInjected ShipOutcome = iota
	// ShipAlreadyPresent means the boarded ship is already enumerated among
	// normal assets (docked in a hangar) and needs no synthetic twin.
	ShipAlreadyPresent
	// ShipMissingScopes means authorization lacks the location scopes; the
	// caller should surface a re-authorization signal.
	ShipMissingScopes
	// ShipUnknown means no ship snapshot was available this pass.
	ShipUnknown
)

// ActiveShipRecord synthesizes the currently boarded ship. Characters only:
// the record is produced when both location scopes are present and the ship's
// live item id is absent from the normal asset set — a docked ship is already
// enumerated while boarded, an undocked one exists nowhere else.
func ActiveShipRecord(owner domain.Owner, ship domain.ShipSnapshot, presentItemIDs map[int64]bool, scopes ScopeChecker) (domain.AssetRecord, ShipOutcome) {
	if !owner.IsCharacter() || ship.ShipItemID == 0 {
		return domain.AssetRecord{}, ShipUnknown
	}
	if !scopes.OwnerHasScope(owner.Key(), domain.ScopeReadLocation) ||
		!scopes.OwnerHasScope(owner.Key(), domain.ScopeReadShipType) {
		return domain.AssetRecord{}, ShipMissingScopes
	}
	if presentItemIDs[ship.ShipItemID] {
		return domain.AssetRecord{}, ShipAlreadyPresent
	}

	locationID := ship.SolarSystemID
	locationType := domain.LocationTypeSolarSystem
	switch {
	case ship.StructureID != 0:
		locationID = ship.StructureID
		locationType = domain.LocationTypeOther
	case ship.StationID != 0:
		locationID = ship.StationID
		locationType = domain.LocationTypeStation
	}

	return domain.AssetRecord{
		ItemID:       ship.ShipItemID,
		TypeID:       ship.ShipTypeID,
		LocationID:   locationID,
		LocationType: locationType,
		LocationFlag: domain.FlagActiveShip,
		Quantity:     1,
		IsSingleton:  true,
		CustomName:   ship.ShipName,
	}, ShipInjected
}

// OrderRecords synthesizes one record per open market order. The order id
// doubles as the item id; order ids and item ids are drawn from disjoint
// ranges in the source system, so they never collide within a pass. Quantity
// is the unfilled remainder.
func OrderRecords(orders []domain.MarketOrder) []domain.AssetRecord {
	return lo.FilterMap(orders, func(o domain.MarketOrder, _ int) (domain.AssetRecord, bool) {
		if o.VolumeRemain <= 0 {
			return domain.AssetRecord{}, false
		}
		flag := domain.FlagSellOrder
		if o.IsBuyOrder {
			flag = domain.FlagBuyOrder
		}
		return domain.AssetRecord{
			ItemID:       o.OrderID,
			TypeID:       o.TypeID,
			LocationID:   o.LocationID,
			LocationType: orderLocationType(o.LocationID),
			LocationFlag: flag,
			Quantity:     o.VolumeRemain,
		}, true
	})
}

// OrderAppraisals maps each synthetic order item id to the order's own unit
// price, so an order line is valued at what it is actually listed for rather
// than the type's market average.
func OrderAppraisals(orders []domain.MarketOrder) map[int64]decimal.Decimal {
	appraisals := make(map[int64]decimal.Decimal, len(orders))
	for _, o := range orders {
		if o.VolumeRemain > 0 {
			appraisals[o.OrderID] = o.Price
		}
	}
	return appraisals
}

// ContractRecords synthesizes one record per included item of each contract
// the owner issued that is still outstanding or in progress. Items the owner
// gave up keep their full positive market value until the exchange completes;
// contracts assigned to the owner inject nothing, since those items are not
// owned yet. The item id combines contract id and record id so lines stay
// unique across contracts.
func ContractRecords(owner domain.Owner, contracts []domain.ContractWithItems) []domain.AssetRecord {
	var records []domain.AssetRecord
	for _, cw := range contracts {
		c := cw.Contract
		if !c.Status.IsActive() || c.IssuerID != owner.ID {
			continue
		}
		for _, item := range cw.Items {
			if !item.IsIncluded || item.Quantity <= 0 {
				continue
			}
			records = append(records, domain.AssetRecord{
				ItemID:       SyntheticContractItemID(c.ContractID, item.RecordID),
				TypeID:       item.TypeID,
				LocationID:   c.StartLocationID,
				LocationType: orderLocationType(c.StartLocationID),
				LocationFlag: domain.FlagInContract,
				Quantity:     item.Quantity,
				IsSingleton:  item.IsSingleton,
			})
		}
	}
	return records
}

// SyntheticContractItemID derives a unique pseudo item id for a contract line.
func SyntheticContractItemID(contractID, recordID int64) int64 {
	return contractID*contractRecordSpan + recordID%contractRecordSpan
}

// JobRecords synthesizes one record per active or ready industry job, holding
// the job's output. The product type falls back to the blueprint type while
// the product is not yet known; quantity is the run count.
func JobRecords(jobs []domain.IndustryJob) []domain.AssetRecord {
	return lo.FilterMap(jobs, func(j domain.IndustryJob, _ int) (domain.AssetRecord, bool) {
		if !j.IsActive() || j.Runs <= 0 {
			return domain.AssetRecord{}, false
		}
		typeID := j.ProductTypeID
		if typeID == 0 {
			typeID = j.BlueprintTypeID
		}
		locationID := j.OutputLocationID
		if locationID == 0 {
			locationID = j.StationID
		}
		return domain.AssetRecord{
			ItemID:       j.JobID,
			TypeID:       typeID,
			LocationID:   locationID,
			LocationType: orderLocationType(locationID),
			LocationFlag: domain.FlagIndustryJob,
			Quantity:     j.Runs,
		}, true
	})
}

// ContractItemIDs collects the live item ids attached to active contracts,
// for cross-reference marking of real assets also listed in a contract.
func ContractItemIDs(contracts []domain.ContractWithItems) map[int64]bool {
	ids := make(map[int64]bool)
	for _, cw := range contracts {
		if !cw.Contract.Status.IsActive() {
			continue
		}
		for _, item := range cw.Items {
			if item.RealItemID != 0 {
				ids[item.RealItemID] = true
			}
		}
	}
	return ids
}

// orderLocationType infers a coarse location type from the id range; the
// resolver branches on the numeric id before trusting this.
func orderLocationType(locationID int64) domain.LocationType {
	if locationID >= domain.StructureIDThreshold {
		return domain.LocationTypeOther
	}
	return domain.LocationTypeStation
}

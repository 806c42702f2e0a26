package refdata

import (
	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
)

// TypeInfo is one entry of the type catalog.
type TypeInfo struct {
	TypeID         int64            `json:"typeId"`
	Name           string           `json:"name"`
	CategoryID     int64            `json:"categoryId"`
	GroupID        int64            `json:"groupId"`
	Volume         decimal.Decimal  `json:"volume"`
	PackagedVolume *decimal.Decimal `json:"packagedVolume,omitempty"`
}

// EffectiveVolume prefers the packaged-volume override, falling back to the
// base volume, else zero.
func (t TypeInfo) EffectiveVolume() decimal.Decimal {
	if t.PackagedVolume != nil {
		return *t.PackagedVolume
	}
	return t.Volume
}

// LocationKind classifies catalog location entries.
type LocationKind string

const (
	LocationStation LocationKind = "station"
	LocationSystem  LocationKind = "solar_system"
	LocationMoon    LocationKind = "moon"
)

// LocationInfo is one catalog location entry (NPC station, solar system, moon).
type LocationInfo struct {
	LocationID      int64        `json:"locationId"`
	Kind            LocationKind `json:"kind"`
	Name            string       `json:"name"`
	SolarSystemID   int64        `json:"solarSystemId,omitempty"`
	SolarSystemName string       `json:"solarSystemName,omitempty"`
	RegionID        int64        `json:"regionId,omitempty"`
	RegionName      string       `json:"regionName,omitempty"`
}

// StructureInfo is one player-owned structure entry.
type StructureInfo struct {
	StructureID     int64  `json:"structureId"`
	Name            string `json:"name"`
	TypeID          int64  `json:"typeId,omitempty"`
	SolarSystemID   int64  `json:"solarSystemId,omitempty"`
	SolarSystemName string `json:"solarSystemName,omitempty"`
	RegionID        int64  `json:"regionId,omitempty"`
	RegionName      string `json:"regionName,omitempty"`
	OwnerKey        string `json:"ownerKey,omitempty"`
}

// Snapshot is an immutable view of the reference data at one instant. The
// backing store hands out a fresh Snapshot per resolution pass, so concurrent
// catalog writes never surface mid-pass. A zero Snapshot is valid and simply
// resolves nothing. Absence of an entry is an expected steady state while the
// catalog is still being populated, never an error.
type Snapshot struct {
	version         uint64
	types           map[int64]TypeInfo
	locations       map[int64]LocationInfo
	structures      map[int64]StructureInfo
	ownedStructures map[int64]bool
}

// Version returns the store's monotonically increasing version counter at the
// time the snapshot was taken.
func (s Snapshot) Version() uint64 { return s.version }

// HasType reports whether the type catalog holds the given type id.
func (s Snapshot) HasType(typeID int64) bool {
	_, ok := s.types[typeID]
	return ok
}

// GetType looks up a type catalog entry.
func (s Snapshot) GetType(typeID int64) (TypeInfo, bool) {
	t, ok := s.types[typeID]
	return t, ok
}

// HasLocation reports whether the location catalog holds the given id.
func (s Snapshot) HasLocation(locationID int64) bool {
	_, ok := s.locations[locationID]
	return ok
}

// GetLocation looks up a catalog location entry.
func (s Snapshot) GetLocation(locationID int64) (LocationInfo, bool) {
	l, ok := s.locations[locationID]
	return l, ok
}

// HasStructure reports whether the given id is a known player structure.
func (s Snapshot) HasStructure(structureID int64) bool {
	_, ok := s.structures[structureID]
	return ok
}

// GetStructure looks up a player structure entry.
func (s Snapshot) GetStructure(structureID int64) (StructureInfo, bool) {
	st, ok := s.structures[structureID]
	return st, ok
}

// IsOwnedStructure reports whether the structure belongs to one of the
// tracked owners rather than being a third-party structure the owner docks at.
func (s Snapshot) IsOwnedStructure(structureID int64) bool {
	return s.ownedStructures[structureID]
}

// CategoryOf returns the category id of a type, or zero when unknown.
func (s Snapshot) CategoryOf(typeID int64) int64 {
	if t, ok := s.types[typeID]; ok {
		return t.CategoryID
	}
	return 0
}

// CategoryName maps well-known category ids onto the display names the tree
// filter matches against.
func CategoryName(categoryID int64) string {
	switch categoryID {
	case 2:
		return "Celestial"
	case 4:
		return "Material"
	case domain.CategoryShip:
		return "Ship"
	case 7:
		return "Module"
	case 8:
		return "Charge"
	case domain.CategoryBlueprint:
		return "Blueprint"
	case 18:
		return "Drone"
	case 22:
		return "Deployable"
	case domain.CategoryStarbase:
		return "Starbase"
	case 25:
		return "Asteroid"
	case domain.CategoryStructure:
		return "Structure"
	default:
		return ""
	}
}

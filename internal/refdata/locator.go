package refdata

import (
	"fmt"

	"github.com/evetools/hangarstat/internal/domain"
)

// Place is a fully classified physical location: an NPC station, a player
// structure, or open space in a solar system, with its parent system and
// region when known.
type Place struct {
	Kind       domain.RootLocationType
	Name       string
	SystemID   int64
	SystemName string
	RegionID   int64
	RegionName string
}

// ResolvePlace classifies a numeric location id and yields its name, parent
// system and region. Ids at or above the structure threshold are player
// structures; everything else is looked up in the catalog. Unresolved entries
// degrade to a deterministic placeholder name embedding the raw id; this is
// the expected steady state while the catalog is still being populated, so
// ResolvePlace never fails.
func (s Snapshot) ResolvePlace(locationID int64) Place {
	if locationID >= domain.StructureIDThreshold {
		return s.resolveStructure(locationID)
	}

	loc, ok := s.GetLocation(locationID)
	if !ok {
		return Place{
			Kind: domain.RootStation,
			Name: fmt.Sprintf("Location %d", locationID),
		}
	}

	if loc.Kind == LocationSystem {
		return Place{
			Kind:       domain.RootSolarSystem,
			Name:       loc.Name,
			SystemID:   loc.LocationID,
			SystemName: loc.Name,
			RegionID:   loc.RegionID,
			RegionName: loc.RegionName,
		}
	}

	return Place{
		Kind:       domain.RootStation,
		Name:       loc.Name,
		SystemID:   loc.SolarSystemID,
		SystemName: loc.SolarSystemName,
		RegionID:   loc.RegionID,
		RegionName: loc.RegionName,
	}
}

// ResolveSystem resolves a bare solar system id into a Place of kind
// solar_system, with the usual placeholder degradation.
func (s Snapshot) ResolveSystem(systemID int64) Place {
	loc, ok := s.GetLocation(systemID)
	if !ok || loc.Kind != LocationSystem {
		return Place{
			Kind: domain.RootSolarSystem,
			Name: fmt.Sprintf("Location %d", systemID),
		}
	}
	return Place{
		Kind:       domain.RootSolarSystem,
		Name:       loc.Name,
		SystemID:   loc.LocationID,
		SystemName: loc.Name,
		RegionID:   loc.RegionID,
		RegionName: loc.RegionName,
	}
}

func (s Snapshot) resolveStructure(structureID int64) Place {
	st, ok := s.GetStructure(structureID)
	if !ok {
		return Place{
			Kind: domain.RootStructure,
			Name: fmt.Sprintf("Structure %d", structureID),
		}
	}
	return Place{
		Kind:       domain.RootStructure,
		Name:       st.Name,
		SystemID:   st.SolarSystemID,
		SystemName: st.SolarSystemName,
		RegionID:   st.RegionID,
		RegionName: st.RegionName,
	}
}

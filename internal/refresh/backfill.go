package refresh

import (
	"context"
	"log/slog"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
	"github.com/evetools/hangarstat/internal/refdata"
)

// EVE universe id ranges for sub-threshold location ids.
const (
	systemIDMin  = 30_000_000
	systemIDMax  = 33_000_000
	moonIDMin    = 40_000_000
	moonIDMax    = 50_000_000
	stationIDMin = 60_000_000
	stationIDMax = 64_000_000
)

// backfillCatalog resolves every type, location, and structure id the record
// sets mention that the catalog does not yet hold. Individual fetch failures
// are logged and skipped; the resolver renders placeholders for what stays
// unknown and the next refresh retries.
func (s *Service) backfillCatalog(ctx context.Context, in engine.Inputs) {
	budget := maxCatalogFetches

	s.backfillTypes(ctx, s.store.MissingTypes(referencedTypeIDs(in)), &budget)

	locationIDs := referencedLocationIDs(in)
	s.backfillLocations(ctx, s.store.MissingLocations(locationIDs), &budget)
	s.backfillStructures(ctx, s.store.MissingStructures(locationIDs), &budget)
}

func (s *Service) backfillTypes(ctx context.Context, missing []int64, budget *int) {
	var fetched []refdata.TypeInfo
	for _, id := range missing {
		if *budget <= 0 {
			break
		}
		*budget--
		info, err := s.catalog.FetchType(ctx, id)
		if err != nil {
			slog.Warn("type backfill failed", "typeId", id, "error", err)
			continue
		}
		fetched = append(fetched, info)
	}
	s.store.PutTypes(fetched...)
}

func (s *Service) backfillLocations(ctx context.Context, missing []int64, budget *int) {
	var fetched []refdata.LocationInfo
	for _, id := range missing {
		if *budget <= 0 {
			break
		}

		var (
			info refdata.LocationInfo
			err  error
		)
		switch {
		case id >= stationIDMin && id < stationIDMax:
			*budget--
			info, err = s.catalog.FetchStation(ctx, id)
		case id >= systemIDMin && id < systemIDMax:
			*budget--
			info, err = s.catalog.FetchSystem(ctx, id)
		case id >= moonIDMin && id < moonIDMax:
			*budget--
			info, err = s.catalog.FetchMoon(ctx, id)
		default:
			// Item-range or otherwise unclassifiable; not a catalog location.
			continue
		}
		if err != nil {
			slog.Warn("location backfill failed", "locationId", id, "error", err)
			continue
		}
		fetched = append(fetched, info)
	}
	s.store.PutLocations(fetched...)
}

func (s *Service) backfillStructures(ctx context.Context, missing []int64, budget *int) {
	var fetched []refdata.StructureInfo
	for _, id := range missing {
		if *budget <= 0 {
			break
		}
		*budget--
		info, err := s.catalog.FetchStructure(ctx, id)
		if err != nil {
			// Commonly a 403 on structures the owner lost access to.
			slog.Warn("structure backfill failed", "structureId", id, "error", err)
			continue
		}
		fetched = append(fetched, info)
	}
	s.store.PutStructures(fetched...)
}

// referencedTypeIDs collects every type id the inputs mention.
func referencedTypeIDs(in engine.Inputs) []int64 {
	var ids []int64
	for _, r := range in.Assets {
		ids = append(ids, r.TypeID)
	}
	for _, o := range in.Orders {
		ids = append(ids, o.TypeID)
	}
	for _, c := range in.Contracts {
		for _, item := range c.Items {
			ids = append(ids, item.TypeID)
		}
	}
	for _, j := range in.Jobs {
		ids = append(ids, j.BlueprintTypeID, j.ProductTypeID)
	}
	if in.Ship.ShipTypeID != 0 {
		ids = append(ids, in.Ship.ShipTypeID)
	}
	return ids
}

// referencedLocationIDs collects every location id the inputs mention,
// including moon ids reachable through the starbase mapping.
func referencedLocationIDs(in engine.Inputs) []int64 {
	var ids []int64
	for _, r := range in.Assets {
		if r.LocationType != domain.LocationTypeItem {
			ids = append(ids, r.LocationID)
		}
	}
	for _, o := range in.Orders {
		ids = append(ids, o.LocationID)
	}
	for _, c := range in.Contracts {
		ids = append(ids, c.Contract.StartLocationID)
	}
	for _, j := range in.Jobs {
		ids = append(ids, j.OutputLocationID, j.StationID)
	}
	ids = append(ids, in.Ship.SolarSystemID, in.Ship.StationID, in.Ship.StructureID)
	for _, moonID := range in.Moons {
		ids = append(ids, moonID)
	}
	return ids
}

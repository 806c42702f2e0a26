// Package refresh orchestrates one owner refresh: pull the record sets from
// ESI, backfill the reference-data catalog for everything they mention, and
// run a resolution pass.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
	"github.com/evetools/hangarstat/internal/pricing"
	"github.com/evetools/hangarstat/internal/refdata"
)

// Catalog backfill is capped per refresh; a first pass over a large hangar
// can reference thousands of unknown types, and the remainder resolves on
// the next cycle against placeholder labels in the meantime.
const maxCatalogFetches = 500

// RecordSource fetches the per-owner record sets.
type RecordSource interface {
	FetchAssets(ctx context.Context, owner domain.Owner) ([]domain.AssetRecord, error)
	FetchAssetNames(ctx context.Context, owner domain.Owner, itemIDs []int64) (map[int64]string, error)
	FetchOrders(ctx context.Context, owner domain.Owner) ([]domain.MarketOrder, error)
	FetchContractsWithItems(ctx context.Context, owner domain.Owner) ([]domain.ContractWithItems, error)
	FetchIndustryJobs(ctx context.Context, owner domain.Owner) ([]domain.IndustryJob, error)
	FetchShipSnapshot(ctx context.Context, owner domain.Owner) (*domain.ShipSnapshot, error)
	FetchStarbases(ctx context.Context, owner domain.Owner) (domain.StarbaseMoons, error)
}

// CatalogSource fetches reference-data entries by id.
type CatalogSource interface {
	FetchType(ctx context.Context, typeID int64) (refdata.TypeInfo, error)
	FetchStation(ctx context.Context, stationID int64) (refdata.LocationInfo, error)
	FetchSystem(ctx context.Context, systemID int64) (refdata.LocationInfo, error)
	FetchMoon(ctx context.Context, moonID int64) (refdata.LocationInfo, error)
	FetchStructure(ctx context.Context, structureID int64) (refdata.StructureInfo, error)
}

// Service runs refreshes for one owner.
type Service struct {
	owner   domain.Owner
	records RecordSource
	catalog CatalogSource
	store   *refdata.Store
	prices  *pricing.Service
	engine  *engine.Engine
}

// NewService creates a refresh service. All collaborators are required.
func NewService(owner domain.Owner, records RecordSource, catalog CatalogSource, store *refdata.Store, prices *pricing.Service, eng *engine.Engine) *Service {
	if records == nil {
		panic("refresh.NewService: records is nil")
	}
	if catalog == nil {
		panic("refresh.NewService: catalog is nil")
	}
	if store == nil {
		panic("refresh.NewService: store is nil")
	}
	if prices == nil {
		panic("refresh.NewService: prices is nil")
	}
	if eng == nil {
		panic("refresh.NewService: engine is nil")
	}
	return &Service{owner: owner, records: records, catalog: catalog, store: store, prices: prices, engine: eng}
}

// RefreshOwner pulls fresh record sets, backfills the catalog, recomputes the
// resolution pass, and returns the per-mode summary of the new pass.
func (s *Service) RefreshOwner(ctx context.Context) (engine.Summary, error) {
	started := time.Now()

	if err := s.prices.Refresh(ctx); err != nil {
		slog.Warn("market price refresh failed, keeping cached prices", "error", err)
	}

	assets, err := s.records.FetchAssets(ctx, s.owner)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("fetching assets: %w", err)
	}
	s.applyCustomNames(ctx, assets)

	orders, err := s.records.FetchOrders(ctx, s.owner)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("fetching orders: %w", err)
	}

	contracts, err := s.records.FetchContractsWithItems(ctx, s.owner)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("fetching contracts: %w", err)
	}

	jobs, err := s.records.FetchIndustryJobs(ctx, s.owner)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("fetching industry jobs: %w", err)
	}

	var ship domain.ShipSnapshot
	if s.owner.IsCharacter() {
		if snap, err := s.records.FetchShipSnapshot(ctx, s.owner); err != nil {
			slog.Warn("active ship fetch failed, skipping injection", "owner", s.owner.Key(), "error", err)
		} else {
			ship = *snap
		}
	}

	moons, err := s.records.FetchStarbases(ctx, s.owner)
	if err != nil {
		slog.Warn("starbase fetch failed, moon labels unavailable", "owner", s.owner.Key(), "error", err)
		moons = domain.StarbaseMoons{}
	}

	inputs := engine.Inputs{
		Owner:     s.owner,
		Assets:    assets,
		Orders:    orders,
		Contracts: contracts,
		Jobs:      jobs,
		Ship:      ship,
		Moons:     moons,
	}

	s.backfillCatalog(ctx, inputs)
	s.markOwnedStructures(assets)

	result := s.engine.Recompute(inputs)
	slog.Info("owner refresh completed",
		"owner", s.owner.Key(),
		"assets", len(result.Assets),
		"refdataVersion", result.RefdataVersion,
		"needsReauth", result.NeedsReauth,
		"duration", time.Since(started))

	return s.engine.Summarize(), nil
}

// applyCustomNames attaches player-assigned names to singleton records. The
// names endpoint only answers for singletons.
func (s *Service) applyCustomNames(ctx context.Context, assets []domain.AssetRecord) {
	singletons := lo.FilterMap(assets, func(r domain.AssetRecord, _ int) (int64, bool) {
		return r.ItemID, r.IsSingleton
	})
	if len(singletons) == 0 {
		return
	}

	names, err := s.records.FetchAssetNames(ctx, s.owner, singletons)
	if err != nil {
		slog.Warn("asset name fetch failed, showing type names", "owner", s.owner.Key(), "error", err)
		return
	}
	for i := range assets {
		if name, ok := names[assets[i].ItemID]; ok {
			assets[i].CustomName = name
		}
	}
}

// markOwnedStructures records structure-category asset records as owned so
// fitted modules on them resolve as deployed rather than hangared.
func (s *Service) markOwnedStructures(assets []domain.AssetRecord) {
	snap := s.store.Snapshot()
	owned := lo.FilterMap(assets, func(r domain.AssetRecord, _ int) (int64, bool) {
		return r.ItemID, snap.CategoryOf(r.TypeID) == domain.CategoryStructure
	})
	s.store.MarkOwned(owned...)
}

// Package engine is the synchronous entry point of the resolution pipeline:
// one Recompute call takes consistent snapshots of the reference data and
// price table, injects synthetic records, resolves every record, and caches
// the result for flat and tree consumption. There is no incremental
// recomputation — each pass rebuilds everything from the current inputs, which
// trades some work for the elimination of staleness bugs.
package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/pricing"
	"github.com/evetools/hangarstat/internal/refdata"
	"github.com/evetools/hangarstat/internal/resolver"
	"github.com/evetools/hangarstat/internal/synthetic"
	"github.com/evetools/hangarstat/internal/tree"
)

// Inputs is the full record set of one owner for one resolution pass.
type Inputs struct {
	Owner     domain.Owner
	Assets    []domain.AssetRecord
	Orders    []domain.MarketOrder
	Contracts []domain.ContractWithItems
	Jobs      []domain.IndustryJob
	Ship      domain.ShipSnapshot
	Moons     domain.StarbaseMoons
}

// Result is the output of one pass: the flat resolved entity list plus the
// cross-reference id sets and degradation signals the UI consumes.
type Result struct {
	Owner           domain.Owner           `json:"owner"`
	Assets          []domain.ResolvedAsset `json:"assets"`
	ContractItemIDs map[int64]bool         `json:"-"`
	OrderItemIDs    map[int64]bool         `json:"-"`
	NeedsReauth     bool                   `json:"needsReauth,omitempty"`
	RefdataVersion  uint64                 `json:"refdataVersion"`
	ComputedAt      time.Time              `json:"computedAt"`
}

// ModeTotals is the grand total of one aggregation mode.
type ModeTotals struct {
	Mode        domain.Mode     `json:"mode"`
	TotalCount  int64           `json:"totalCount"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	TotalVolume decimal.Decimal `json:"totalVolume"`
}

// Summary condenses a pass into the per-mode totals persisted as net-worth
// history.
type Summary struct {
	OwnerKey       string          `json:"ownerKey"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	RefdataVersion uint64          `json:"refdataVersion"`
	NetWorth       decimal.Decimal `json:"netWorth"`
	Modes          []ModeTotals    `json:"modes"`
}

// RefdataSource hands out immutable reference-data snapshots.
type RefdataSource interface {
	Snapshot() refdata.Snapshot
}

// PriceSource hands out immutable price tables.
type PriceSource interface {
	Snapshot() pricing.Table
}

// Engine owns the cached pass result and rebuilds it on demand.
type Engine struct {
	refdata RefdataSource
	prices  PriceSource
	scopes  synthetic.ScopeChecker

	mu     sync.RWMutex
	result Result
	snap   refdata.Snapshot
}

// New creates an Engine. All collaborators are required.
func New(rd RefdataSource, prices PriceSource, scopes synthetic.ScopeChecker) *Engine {
	if rd == nil {
		panic("engine.New: refdata is nil")
	}
	if prices == nil {
		panic("engine.New: prices is nil")
	}
	if scopes == nil {
		panic("engine.New: scopes is nil")
	}
	return &Engine{refdata: rd, prices: prices, scopes: scopes}
}

// Recompute runs a full resolution pass over the inputs against snapshots
// taken at the moment of invocation, caches the result, and returns it. A
// superseding call simply replaces the previous result.
func (e *Engine) Recompute(in Inputs) Result {
	snap := e.refdata.Snapshot()
	table := e.prices.Snapshot().WithAppraisals(synthetic.OrderAppraisals(in.Orders))

	records := slices.Clone(in.Assets)

	presentIDs := lo.SliceToMap(in.Assets, func(r domain.AssetRecord) (int64, bool) {
		return r.ItemID, true
	})

	needsReauth := false
	shipRecord, outcome := synthetic.ActiveShipRecord(in.Owner, in.Ship, presentIDs, e.scopes)
	switch outcome {
	case synthetic.ShipInjected:
		records = append(records, shipRecord)
	case synthetic.ShipMissingScopes:
		needsReauth = true
	}

	records = append(records, synthetic.OrderRecords(in.Orders)...)
	records = append(records, synthetic.ContractRecords(in.Owner, in.Contracts)...)
	records = append(records, synthetic.JobRecords(in.Jobs)...)

	pass := resolver.Pass{
		Owner:    in.Owner,
		Snapshot: snap,
		Prices:   table,
		Moons:    in.Moons,
	}

	result := Result{
		Owner:           in.Owner,
		Assets:          pass.ResolveAll(records),
		ContractItemIDs: synthetic.ContractItemIDs(in.Contracts),
		OrderItemIDs:    orderItemIDs(in.Orders),
		NeedsReauth:     needsReauth,
		RefdataVersion:  snap.Version(),
		ComputedAt:      time.Now().UTC(),
	}

	e.mu.Lock()
	e.result = result
	e.snap = snap
	e.mu.Unlock()

	return result
}

// Result returns the most recent pass output.
func (e *Engine) Result() Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.result
}

// Tree builds the aggregated hierarchy for a mode from the cached pass,
// applies cross-reference marking, and prunes it by search and category.
func (e *Engine) Tree(mode domain.Mode, search, category string) []*domain.TreeNode {
	e.mu.RLock()
	result := e.result
	snap := e.snap
	e.mu.RUnlock()

	roots := tree.Build(result.Assets, mode, snap)
	tree.MarkSourceFlags(roots, result.ContractItemIDs, result.OrderItemIDs)
	return tree.Filter(roots, search, category)
}

// Summarize folds the cached pass into per-mode grand totals. Net worth is
// the all-mode total value.
func (e *Engine) Summarize() Summary {
	e.mu.RLock()
	result := e.result
	e.mu.RUnlock()

	modes := lo.Map(domain.Modes(), func(m domain.Mode, _ int) ModeTotals {
		totals := ModeTotals{Mode: m, TotalValue: decimal.Zero, TotalVolume: decimal.Zero}
		for _, a := range result.Assets {
			if !m.Includes(a.Flags) {
				continue
			}
			totals.TotalCount += a.Quantity
			totals.TotalValue = domain.SafeSum(totals.TotalValue, a.TotalValue)
			totals.TotalVolume = domain.SafeSum(totals.TotalVolume, a.TotalVolume)
		}
		return totals
	})

	netWorth := decimal.Zero
	for _, m := range modes {
		if m.Mode == domain.ModeAll {
			netWorth = m.TotalValue
		}
	}

	return Summary{
		OwnerKey:       result.Owner.Key(),
		GeneratedAt:    result.ComputedAt,
		RefdataVersion: result.RefdataVersion,
		NetWorth:       netWorth,
		Modes:          modes,
	}
}

func orderItemIDs(orders []domain.MarketOrder) map[int64]bool {
	ids := make(map[int64]bool, len(orders))
	for _, o := range orders {
		if o.VolumeRemain > 0 {
			ids[o.OrderID] = true
		}
	}
	return ids
}

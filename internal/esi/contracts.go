package esi

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/evetools/hangarstat/internal/domain"
)

type contractEntry struct {
	ContractID      int64  `json:"contract_id"`
	IssuerID        int64  `json:"issuer_id"`
	Status          string `json:"status"`
	Type            string `json:"type"`
	StartLocationID int64  `json:"start_location_id"`
}

type contractItemEntry struct {
	RecordID    int64 `json:"record_id"`
	TypeID      int64 `json:"type_id"`
	ItemID      int64 `json:"item_id"`
	Quantity    int64 `json:"quantity"`
	IsIncluded  bool  `json:"is_included"`
	IsSingleton bool  `json:"is_singleton"`
}

// FetchContracts fetches the owner's contracts, paged, keeping only active
// item-exchange and auction contracts issued by the owner.
func (c *Client) FetchContracts(ctx context.Context, owner domain.Owner) ([]domain.Contract, error) {
	entries, err := getPaged[contractEntry](ctx, c, ownerPath(owner, "contracts"))
	if err != nil {
		return nil, fmt.Errorf("fetching contracts for %s: %w", owner.Key(), err)
	}

	return lo.FilterMap(entries, func(e contractEntry, _ int) (domain.Contract, bool) {
		if e.Type != "item_exchange" && e.Type != "auction" {
			return domain.Contract{}, false
		}
		return domain.Contract{
			ContractID:      e.ContractID,
			IssuerID:        e.IssuerID,
			Status:          domain.ContractStatus(e.Status),
			Type:            e.Type,
			StartLocationID: e.StartLocationID,
		}, true
	}), nil
}

// FetchContractItems fetches the item list of one contract.
func (c *Client) FetchContractItems(ctx context.Context, owner domain.Owner, contractID int64) ([]domain.ContractItem, error) {
	var entries []contractItemEntry
	path := ownerPath(owner, fmt.Sprintf("contracts/%d/items", contractID))
	if err := c.getJSON(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetching items of contract %d: %w", contractID, err)
	}

	return lo.Map(entries, func(e contractItemEntry, _ int) domain.ContractItem {
		return domain.ContractItem{
			RecordID:   e.RecordID,
			TypeID:     e.TypeID,
			RealItemID: e.ItemID,
			Quantity:   e.Quantity,
			IsIncluded: e.IsIncluded,
		}
	}), nil
}

// FetchContractsWithItems fetches active issuer contracts together with their
// item lists, the shape the record injector consumes.
func (c *Client) FetchContractsWithItems(ctx context.Context, owner domain.Owner) ([]domain.ContractWithItems, error) {
	contracts, err := c.FetchContracts(ctx, owner)
	if err != nil {
		return nil, err
	}

	var out []domain.ContractWithItems
	for _, contract := range contracts {
		if contract.IssuerID != owner.ID || !contract.Status.IsActive() {
			continue
		}
		items, err := c.FetchContractItems(ctx, owner, contract.ContractID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ContractWithItems{Contract: contract, Items: items})
	}
	return out, nil
}

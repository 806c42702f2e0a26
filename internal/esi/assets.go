package esi

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/evetools/hangarstat/internal/domain"
)

type assetEntry struct {
	ItemID          int64  `json:"item_id"`
	TypeID          int64  `json:"type_id"`
	LocationID      int64  `json:"location_id"`
	LocationType    string `json:"location_type"`
	LocationFlag    string `json:"location_flag"`
	Quantity        int64  `json:"quantity"`
	IsSingleton     bool   `json:"is_singleton"`
	IsBlueprintCopy bool   `json:"is_blueprint_copy"`
}

type nameEntry struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

func locationType(s string) domain.LocationType {
	switch s {
	case "station":
		return domain.LocationTypeStation
	case "solar_system":
		return domain.LocationTypeSolarSystem
	case "item":
		return domain.LocationTypeItem
	default:
		return domain.LocationTypeOther
	}
}

// FetchAssets fetches the full asset list of an owner, following pagination.
func (c *Client) FetchAssets(ctx context.Context, owner domain.Owner) ([]domain.AssetRecord, error) {
	entries, err := getPaged[assetEntry](ctx, c, ownerPath(owner, "assets"))
	if err != nil {
		return nil, fmt.Errorf("fetching assets for %s: %w", owner.Key(), err)
	}

	return lo.Map(entries, func(e assetEntry, _ int) domain.AssetRecord {
		return domain.AssetRecord{
			ItemID:          e.ItemID,
			TypeID:          e.TypeID,
			LocationID:      e.LocationID,
			LocationType:    locationType(e.LocationType),
			LocationFlag:    e.LocationFlag,
			Quantity:        e.Quantity,
			IsSingleton:     e.IsSingleton,
			IsBlueprintCopy: e.IsBlueprintCopy,
		}
	}), nil
}

const namesBatchSize = 1000

// FetchAssetNames resolves player-assigned names for the given items. Items
// without a custom name are absent from the result.
func (c *Client) FetchAssetNames(ctx context.Context, owner domain.Owner, itemIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string)
	for _, batch := range lo.Chunk(itemIDs, namesBatchSize) {
		var entries []nameEntry
		if err := c.postJSON(ctx, ownerPath(owner, "assets/names"), batch, &entries); err != nil {
			return nil, fmt.Errorf("fetching asset names for %s: %w", owner.Key(), err)
		}
		for _, e := range entries {
			if e.Name != "" && e.Name != "None" {
				names[e.ItemID] = e.Name
			}
		}
	}
	return names, nil
}

func ownerPath(owner domain.Owner, suffix string) string {
	if owner.IsCharacter() {
		return fmt.Sprintf("/characters/%d/%s/", owner.ID, suffix)
	}
	return fmt.Sprintf("/corporations/%d/%s/", owner.ID, suffix)
}

package esi

import (
	"context"
	"fmt"

	"github.com/evetools/hangarstat/internal/domain"
)

type shipEntry struct {
	ShipItemID int64  `json:"ship_item_id"`
	ShipTypeID int64  `json:"ship_type_id"`
	ShipName   string `json:"ship_name"`
}

type locationEntry struct {
	SolarSystemID int64 `json:"solar_system_id"`
	StationID     int64 `json:"station_id"`
	StructureID   int64 `json:"structure_id"`
}

// FetchShipSnapshot fetches the active ship and current docking state of a
// character. Only valid for character owners.
func (c *Client) FetchShipSnapshot(ctx context.Context, owner domain.Owner) (*domain.ShipSnapshot, error) {
	if !owner.IsCharacter() {
		return nil, fmt.Errorf("ship snapshot requested for non-character owner %s", owner.Key())
	}

	var ship shipEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/characters/%d/ship/", owner.ID), &ship); err != nil {
		return nil, fmt.Errorf("fetching active ship for %s: %w", owner.Key(), err)
	}

	var loc locationEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/characters/%d/location/", owner.ID), &loc); err != nil {
		return nil, fmt.Errorf("fetching location for %s: %w", owner.Key(), err)
	}

	return &domain.ShipSnapshot{
		ShipItemID:    ship.ShipItemID,
		ShipTypeID:    ship.ShipTypeID,
		ShipName:      ship.ShipName,
		SolarSystemID: loc.SolarSystemID,
		StationID:     loc.StationID,
		StructureID:   loc.StructureID,
	}, nil
}

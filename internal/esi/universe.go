package esi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/refdata"
)

type typeEntry struct {
	TypeID         int64    `json:"type_id"`
	Name           string   `json:"name"`
	GroupID        int64    `json:"group_id"`
	Volume         float64  `json:"volume"`
	PackagedVolume *float64 `json:"packaged_volume"`
}

type groupEntry struct {
	GroupID    int64 `json:"group_id"`
	CategoryID int64 `json:"category_id"`
}

type stationEntry struct {
	StationID int64  `json:"station_id"`
	Name      string `json:"name"`
	SystemID  int64  `json:"system_id"`
}

type systemEntry struct {
	SystemID        int64  `json:"system_id"`
	Name            string `json:"name"`
	ConstellationID int64  `json:"constellation_id"`
}

type constellationEntry struct {
	RegionID int64 `json:"region_id"`
}

type regionEntry struct {
	RegionID int64  `json:"region_id"`
	Name     string `json:"name"`
}

type moonEntry struct {
	MoonID   int64  `json:"moon_id"`
	Name     string `json:"name"`
	SystemID int64  `json:"system_id"`
}

type structureEntry struct {
	Name          string `json:"name"`
	TypeID        int64  `json:"type_id"`
	SolarSystemID int64  `json:"solar_system_id"`
}

func (c *Client) categoryOfGroup(ctx context.Context, groupID int64) (int64, error) {
	c.groupMu.Lock()
	cached, ok := c.groupCategories[groupID]
	c.groupMu.Unlock()
	if ok {
		return cached, nil
	}

	var group groupEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/groups/%d/", groupID), &group); err != nil {
		return 0, fmt.Errorf("fetching group %d: %w", groupID, err)
	}

	c.groupMu.Lock()
	c.groupCategories[groupID] = group.CategoryID
	c.groupMu.Unlock()
	return group.CategoryID, nil
}

// FetchType fetches one type catalog entry, resolving its category through
// the group hierarchy.
func (c *Client) FetchType(ctx context.Context, typeID int64) (refdata.TypeInfo, error) {
	var entry typeEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/types/%d/", typeID), &entry); err != nil {
		return refdata.TypeInfo{}, fmt.Errorf("fetching type %d: %w", typeID, err)
	}

	categoryID, err := c.categoryOfGroup(ctx, entry.GroupID)
	if err != nil {
		return refdata.TypeInfo{}, err
	}

	info := refdata.TypeInfo{
		TypeID:     typeID,
		Name:       entry.Name,
		GroupID:    entry.GroupID,
		CategoryID: categoryID,
		Volume:     decimal.NewFromFloat(entry.Volume),
	}
	if entry.PackagedVolume != nil {
		packaged := decimal.NewFromFloat(*entry.PackagedVolume)
		info.PackagedVolume = &packaged
	}
	return info, nil
}

// regionOfSystem walks system -> constellation -> region.
func (c *Client) regionOfSystem(ctx context.Context, system systemEntry) (regionEntry, error) {
	var constellation constellationEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/constellations/%d/", system.ConstellationID), &constellation); err != nil {
		return regionEntry{}, fmt.Errorf("fetching constellation %d: %w", system.ConstellationID, err)
	}
	var region regionEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/regions/%d/", constellation.RegionID), &region); err != nil {
		return regionEntry{}, fmt.Errorf("fetching region %d: %w", constellation.RegionID, err)
	}
	region.RegionID = constellation.RegionID
	return region, nil
}

// FetchSystem fetches one solar system with its region resolved.
func (c *Client) FetchSystem(ctx context.Context, systemID int64) (refdata.LocationInfo, error) {
	var system systemEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/systems/%d/", systemID), &system); err != nil {
		return refdata.LocationInfo{}, fmt.Errorf("fetching system %d: %w", systemID, err)
	}
	region, err := c.regionOfSystem(ctx, system)
	if err != nil {
		return refdata.LocationInfo{}, err
	}

	return refdata.LocationInfo{
		LocationID:      systemID,
		Kind:            refdata.LocationSystem,
		Name:            system.Name,
		SolarSystemID:   systemID,
		SolarSystemName: system.Name,
		RegionID:        region.RegionID,
		RegionName:      region.Name,
	}, nil
}

// FetchStation fetches one NPC station with its system and region resolved.
func (c *Client) FetchStation(ctx context.Context, stationID int64) (refdata.LocationInfo, error) {
	var station stationEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/stations/%d/", stationID), &station); err != nil {
		return refdata.LocationInfo{}, fmt.Errorf("fetching station %d: %w", stationID, err)
	}
	system, err := c.FetchSystem(ctx, station.SystemID)
	if err != nil {
		return refdata.LocationInfo{}, err
	}

	return refdata.LocationInfo{
		LocationID:      stationID,
		Kind:            refdata.LocationStation,
		Name:            station.Name,
		SolarSystemID:   system.SolarSystemID,
		SolarSystemName: system.SolarSystemName,
		RegionID:        system.RegionID,
		RegionName:      system.RegionName,
	}, nil
}

// FetchMoon fetches one moon with its system and region resolved. Moons anchor
// starbases and carry the location label those assets display under.
func (c *Client) FetchMoon(ctx context.Context, moonID int64) (refdata.LocationInfo, error) {
	var moon moonEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/moons/%d/", moonID), &moon); err != nil {
		return refdata.LocationInfo{}, fmt.Errorf("fetching moon %d: %w", moonID, err)
	}
	system, err := c.FetchSystem(ctx, moon.SystemID)
	if err != nil {
		return refdata.LocationInfo{}, err
	}

	return refdata.LocationInfo{
		LocationID:      moonID,
		Kind:            refdata.LocationMoon,
		Name:            moon.Name,
		SolarSystemID:   system.SolarSystemID,
		SolarSystemName: system.SolarSystemName,
		RegionID:        system.RegionID,
		RegionName:      system.RegionName,
	}, nil
}

// FetchStructure fetches one player structure. Requires an authenticated
// client with docking access; forbidden structures surface as errors and the
// caller records the id as unresolvable rather than retrying.
func (c *Client) FetchStructure(ctx context.Context, structureID int64) (refdata.StructureInfo, error) {
	var entry structureEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/universe/structures/%d/", structureID), &entry); err != nil {
		return refdata.StructureInfo{}, fmt.Errorf("fetching structure %d: %w", structureID, err)
	}

	info := refdata.StructureInfo{
		StructureID:   structureID,
		Name:          entry.Name,
		TypeID:        entry.TypeID,
		SolarSystemID: entry.SolarSystemID,
	}
	if system, err := c.FetchSystem(ctx, entry.SolarSystemID); err == nil {
		info.SolarSystemName = system.SolarSystemName
		info.RegionID = system.RegionID
		info.RegionName = system.RegionName
	}
	return info, nil
}

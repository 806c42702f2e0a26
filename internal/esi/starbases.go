package esi

import (
	"context"
	"fmt"

	"github.com/evetools/hangarstat/internal/domain"
)

type starbaseEntry struct {
	StarbaseID int64 `json:"starbase_id"`
	TypeID     int64 `json:"type_id"`
	MoonID     int64 `json:"moon_id"`
	SystemID   int64 `json:"system_id"`
}

// FetchStarbases fetches the corporation's anchored starbases and returns the
// starbase item id to moon id mapping used for location labeling. Characters
// cannot own starbases, so character owners get an empty map.
func (c *Client) FetchStarbases(ctx context.Context, owner domain.Owner) (domain.StarbaseMoons, error) {
	if owner.IsCharacter() {
		return domain.StarbaseMoons{}, nil
	}

	entries, err := getPaged[starbaseEntry](ctx, c, fmt.Sprintf("/corporations/%d/starbases/", owner.ID))
	if err != nil {
		return nil, fmt.Errorf("fetching starbases for %s: %w", owner.Key(), err)
	}

	moons := make(domain.StarbaseMoons, len(entries))
	for _, e := range entries {
		if e.MoonID != 0 {
			moons[e.StarbaseID] = e.MoonID
		}
	}
	return moons, nil
}

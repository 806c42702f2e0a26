package domain

import "fmt"

// Authorization scopes required for active-ship detection.
const (
	ScopeReadLocation = "esi-location.read_location.v1"
	ScopeReadShipType = "esi-location.read_ship_type.v1"
)

// OwnerKind distinguishes character-owned from corporation-owned record sets.
type OwnerKind string

const (
	OwnerCharacter   OwnerKind = "character"
	OwnerCorporation OwnerKind = "corporation"
)

// Owner identifies whose records a resolution pass is operating on.
type Owner struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Kind OwnerKind `json:"kind"`
}

// Key returns the stable owner key used for scope checks and persistence.
func (o Owner) Key() string {
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

// IsCharacter reports whether the owner is a character. Active-ship injection
// only applies to characters; corporations do not fly ships.
func (o Owner) IsCharacter() bool {
	return o.Kind == OwnerCharacter
}

// StarbaseMoons maps a deployed starbase item id to the moon it is anchored
// at. Supplied by the owner's corporation data; may be empty.
type StarbaseMoons map[int64]int64

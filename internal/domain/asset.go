package domain

// LocationType classifies the container an ESI asset record points at.
type LocationType string

const (
	LocationTypeStation     LocationType = "station"
	LocationTypeSolarSystem LocationType = "solar_system"
	LocationTypeItem        LocationType = "item"
	LocationTypeOther       LocationType = "other"
)

// Pseudo location flags carried by synthetic records. Real asset records use
// the ESI flag vocabulary (Hangar, CorpSAG1, HiSlot0, ...); these five are
// reserved for records manufactured by the injector and never occur in ESI data.
const (
	FlagActiveShip  = "ActiveShip"
	FlagSellOrder   = "SellOrder"
	FlagBuyOrder    = "BuyOrder"
	FlagInContract  = "InContract"
	FlagIndustryJob = "IndustryJob"
)

// AssetRecord is the single raw shape every source is normalized into before
// resolution. Real assets come from the asset endpoint; orders, contract
// lines, industry jobs and the boarded ship are adapted into this shape by the
// synthetic injector. Records are owned by the caller for the duration of one
// resolution pass and are never mutated.
type AssetRecord struct {
	ItemID          int64        `json:"itemId"`
	TypeID          int64        `json:"typeId"`
	LocationID      int64        `json:"locationId"`
	LocationType    LocationType `json:"locationType"`
	LocationFlag    string       `json:"locationFlag"`
	Quantity        int64        `json:"quantity"`
	IsSingleton     bool         `json:"isSingleton"`
	IsBlueprintCopy bool         `json:"isBlueprintCopy,omitempty"`
	CustomName      string       `json:"customName,omitempty"`
}

// IsSynthetic reports whether the record was manufactured by the injector
// rather than enumerated by the asset endpoint.
func (r AssetRecord) IsSynthetic() bool {
	switch r.LocationFlag {
	case FlagActiveShip, FlagSellOrder, FlagBuyOrder, FlagInContract, FlagIndustryJob:
		return true
	}
	return false
}

package domain

import "github.com/shopspring/decimal"

// RootLocationType classifies the outermost container of a parent chain.
type RootLocationType string

const (
	RootStation     RootLocationType = "station"
	RootStructure   RootLocationType = "structure"
	RootSolarSystem RootLocationType = "solar_system"
)

// ModeFlags is the fixed set of mutually-non-exclusive storage classifications
// computed for every resolved asset. Aggregation modes select on these.
type ModeFlags struct {
	InHangar         bool `json:"inHangar,omitempty"`
	InShipHangar     bool `json:"inShipHangar,omitempty"`
	InItemHangar     bool `json:"inItemHangar,omitempty"`
	InDeliveries     bool `json:"inDeliveries,omitempty"`
	InAssetSafety    bool `json:"inAssetSafety,omitempty"`
	InOffice         bool `json:"inOffice,omitempty"`
	InStructure      bool `json:"inStructure,omitempty"`
	IsContract       bool `json:"isContract,omitempty"`
	IsMarketOrder    bool `json:"isMarketOrder,omitempty"`
	IsIndustryJob    bool `json:"isIndustryJob,omitempty"`
	IsOwnedStructure bool `json:"isOwnedStructure,omitempty"`
	IsActiveShip     bool `json:"isActiveShip,omitempty"`
}

// ResolvedAsset is the canonical output entity of a resolution pass: one per
// input record, with its physical root location, storage classification and
// market value fully determined against the reference snapshot in effect.
type ResolvedAsset struct {
	ItemID     int64 `json:"itemId"`
	TypeID     int64 `json:"typeId"`
	CategoryID int64 `json:"categoryId"`
	GroupID    int64 `json:"groupId"`

	RootLocationID    int64            `json:"rootLocationId"`
	RootLocationType  RootLocationType `json:"rootLocationType"`
	RootLocationName  string           `json:"rootLocationName"`
	RootFlag          string           `json:"rootFlag"`
	SystemID          int64            `json:"systemId,omitempty"`
	SystemName        string           `json:"systemName,omitempty"`
	RegionID          int64            `json:"regionId,omitempty"`
	RegionName        string           `json:"regionName,omitempty"`
	ParentChain       []AssetRecord    `json:"parentChain,omitempty"`
	HasOrphanedParent bool             `json:"hasOrphanedParent,omitempty"`

	TypeName    string          `json:"typeName"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	Volume      decimal.Decimal `json:"volume"`
	TotalVolume decimal.Decimal `json:"totalVolume"`

	Flags ModeFlags `json:"flags"`

	OwnerKey        string `json:"ownerKey"`
	CustomName      string `json:"customName,omitempty"`
	LocationFlag    string `json:"locationFlag"`
	IsSingleton     bool   `json:"isSingleton"`
	IsBlueprintCopy bool   `json:"isBlueprintCopy,omitempty"`
}

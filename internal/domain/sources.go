package domain

import "github.com/shopspring/decimal"

// ContractStatus is the ESI contract lifecycle state.
type ContractStatus string

const (
	ContractOutstanding ContractStatus = "outstanding"
	ContractInProgress  ContractStatus = "in_progress"
	ContractFinished    ContractStatus = "finished"
	ContractDeleted     ContractStatus = "deleted"
)

// IsActive reports whether items under the contract are still in flight and
// should appear in the ownership view.
func (s ContractStatus) IsActive() bool {
	return s == ContractOutstanding || s == ContractInProgress
}

// MarketOrder is one open order on the regional market.
type MarketOrder struct {
	OrderID      int64           `json:"orderId"`
	TypeID       int64           `json:"typeId"`
	LocationID   int64           `json:"locationId"`
	RegionID     int64           `json:"regionId,omitempty"`
	IsBuyOrder   bool            `json:"isBuyOrder"`
	Price        decimal.Decimal `json:"price"`
	VolumeRemain int64           `json:"volumeRemain"`
	VolumeTotal  int64           `json:"volumeTotal"`
}

// Contract is a courier/exchange/auction contract header.
type Contract struct {
	ContractID      int64          `json:"contractId"`
	IssuerID        int64          `json:"issuerId"`
	AssigneeID      int64          `json:"assigneeId,omitempty"`
	Status          ContractStatus `json:"status"`
	Type            string         `json:"type"`
	StartLocationID int64          `json:"startLocationId,omitempty"`
}

// ContractWithItems pairs a contract header with its lines.
type ContractWithItems struct {
	Contract Contract       `json:"contract"`
	Items    []ContractItem `json:"items"`
}

// ContractItem is one line inside a contract. RealItemID is the live item id
// of the attached item when the source exposes it, zero otherwise.
type ContractItem struct {
	RecordID    int64 `json:"recordId"`
	TypeID      int64 `json:"typeId"`
	Quantity    int64 `json:"quantity"`
	IsIncluded  bool  `json:"isIncluded"`
	IsSingleton bool  `json:"isSingleton"`
	RealItemID  int64 `json:"realItemId,omitempty"`
}

// IndustryJob is one manufacturing/research job slot.
type IndustryJob struct {
	JobID            int64  `json:"jobId"`
	BlueprintTypeID  int64  `json:"blueprintTypeId"`
	ProductTypeID    int64  `json:"productTypeId,omitempty"`
	Runs             int64  `json:"runs"`
	Status           string `json:"status"`
	OutputLocationID int64  `json:"outputLocationId"`
	StationID        int64  `json:"stationId"`
}

// IsActive reports whether the job still holds its output.
func (j IndustryJob) IsActive() bool {
	return j.Status == "active" || j.Status == "ready" || j.Status == "paused"
}

// ShipSnapshot describes the ship the character is currently flying, paired
// with where the character is. Either StructureID, StationID, or only
// SolarSystemID is set, depending on docking state.
type ShipSnapshot struct {
	ShipItemID    int64  `json:"shipItemId"`
	ShipTypeID    int64  `json:"shipTypeId"`
	ShipName      string `json:"shipName,omitempty"`
	SolarSystemID int64  `json:"solarSystemId"`
	StationID     int64  `json:"stationId,omitempty"`
	StructureID   int64  `json:"structureId,omitempty"`
}

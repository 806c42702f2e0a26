package domain

import "github.com/shopspring/decimal"

// NodeType identifies a level of the ownership tree.
type NodeType string

const (
	NodeRegion    NodeType = "region"
	NodeSystem    NodeType = "system"
	NodeStation   NodeType = "station"
	NodeOffice    NodeType = "office"
	NodeDivision  NodeType = "division"
	NodeContainer NodeType = "container"
	NodeShip      NodeType = "ship"
	NodeItem      NodeType = "item"
	NodeStack     NodeType = "stack"
)

// Mode names a subset of resolved assets included in one tree build.
type Mode string

const (
	ModeAll        Mode = "all"
	ModeAssets     Mode = "assets"
	ModeShips      Mode = "ships"
	ModeContracts  Mode = "contracts"
	ModeOrders     Mode = "orders"
	ModeIndustry   Mode = "industry"
	ModeSafety     Mode = "safety"
	ModeDeliveries Mode = "deliveries"
)

// Modes lists every aggregation mode in presentation order.
func Modes() []Mode {
	return []Mode{
		ModeAll, ModeAssets, ModeShips, ModeContracts,
		ModeOrders, ModeIndustry, ModeSafety, ModeDeliveries,
	}
}

// ParseMode maps a request string onto a known mode, defaulting to ModeAll.
func ParseMode(s string) Mode {
	for _, m := range Modes() {
		if string(m) == s {
			return m
		}
	}
	return ModeAll
}

// Includes reports whether an asset with the given flags belongs under the mode.
func (m Mode) Includes(f ModeFlags) bool {
	switch m {
	case ModeAssets:
		return !f.IsContract && !f.IsMarketOrder && !f.IsIndustryJob
	case ModeShips:
		return f.InShipHangar || f.IsActiveShip
	case ModeContracts:
		return f.IsContract
	case ModeOrders:
		return f.IsMarketOrder
	case ModeIndustry:
		return f.IsIndustryJob
	case ModeSafety:
		return f.InAssetSafety
	case ModeDeliveries:
		return f.InDeliveries
	default:
		return true
	}
}

// TreeNode is one node of the aggregated ownership tree. Children keep
// insertion order; sorting is the renderer's concern. The four totals on a
// parent always equal the sum over its children.
type TreeNode struct {
	ID       string      `json:"id"`
	NodeType NodeType    `json:"nodeType"`
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children,omitempty"`

	TotalCount  int64           `json:"totalCount"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	TotalVolume decimal.Decimal `json:"totalVolume"`

	RegionName      string `json:"regionName,omitempty"`
	TypeID          int64  `json:"typeId,omitempty"`
	CategoryID      int64  `json:"categoryId,omitempty"`
	DivisionNumber  int    `json:"divisionNumber,omitempty"`
	IsBlueprintCopy bool   `json:"isBlueprintCopy,omitempty"`
	IsInContract    bool   `json:"isInContract,omitempty"`
	IsInMarketOrder bool   `json:"isInMarketOrder,omitempty"`

	// ItemIDs backs cross-reference marking; not part of the rendered payload.
	ItemIDs []int64 `json:"-"`
}

// IsLeaf reports whether the node carries items directly rather than grouping.
func (n *TreeNode) IsLeaf() bool {
	return n.NodeType == NodeItem || n.NodeType == NodeStack
}

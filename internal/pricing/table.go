package pricing

import "github.com/shopspring/decimal"

// Table is an immutable price snapshot taken at the start of a resolution
// pass. Market prices are keyed by type id; appraisals are item-specific
// prices for uniquely-rolled items, keyed by item id.
type Table struct {
	market     map[int64]decimal.Decimal
	appraisals map[int64]decimal.Decimal
}

// NewTable builds a price table from the given maps. The maps are copied.
func NewTable(market, appraisals map[int64]decimal.Decimal) Table {
	t := Table{
		market:     make(map[int64]decimal.Decimal, len(market)),
		appraisals: make(map[int64]decimal.Decimal, len(appraisals)),
	}
	for k, v := range market {
		t.market[k] = v
	}
	for k, v := range appraisals {
		t.appraisals[k] = v
	}
	return t
}

// WithAppraisals returns a new table with extra item-keyed prices merged in.
// Pass-local prices (market-order line prices keyed by their synthetic item
// ids) ride on the same precedence rule as stored appraisals.
func (t Table) WithAppraisals(extra map[int64]decimal.Decimal) Table {
	if len(extra) == 0 {
		return t
	}
	merged := Table{
		market:     t.market,
		appraisals: make(map[int64]decimal.Decimal, len(t.appraisals)+len(extra)),
	}
	for k, v := range t.appraisals {
		merged.appraisals[k] = v
	}
	for k, v := range extra {
		merged.appraisals[k] = v
	}
	return merged
}

// ItemPrice resolves the unit price for one item. Precedence: blueprint
// copies are always worth zero; an item-specific appraisal wins over the
// type-level market price; unknown types degrade to zero rather than failing.
func (t Table) ItemPrice(typeID, itemID int64, isBlueprintCopy bool) decimal.Decimal {
	if isBlueprintCopy {
		return decimal.Zero
	}
	if itemID != 0 {
		if p, ok := t.appraisals[itemID]; ok {
			return p
		}
	}
	if p, ok := t.market[typeID]; ok {
		return p
	}
	return decimal.Zero
}

// HasMarketPrice reports whether a type-level market price is known.
func (t Table) HasMarketPrice(typeID int64) bool {
	_, ok := t.market[typeID]
	return ok
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestItemPricePrecedence(t *testing.T) {
	table := NewTable(
		map[int64]decimal.Decimal{587: decimal.NewFromInt(350000)},
		map[int64]decimal.Decimal{9001: decimal.NewFromInt(1200000000)},
	)

	// Type-level market price
	if got := table.ItemPrice(587, 0, false); !got.Equal(decimal.NewFromInt(350000)) {
		t.Errorf("market price = %s, want 350000", got)
	}

	// Item-specific appraisal wins over the market price
	if got := table.ItemPrice(587, 9001, false); !got.Equal(decimal.NewFromInt(1200000000)) {
		t.Errorf("appraised price = %s, want 1200000000", got)
	}

	// Unknown type degrades to zero
	if got := table.ItemPrice(999999, 0, false); !got.IsZero() {
		t.Errorf("unknown type price = %s, want 0", got)
	}
}

func TestItemPriceBlueprintCopyAlwaysZero(t *testing.T) {
	table := NewTable(
		map[int64]decimal.Decimal{1002: decimal.NewFromInt(90000000)},
		map[int64]decimal.Decimal{5005: decimal.NewFromInt(50000000)},
	)

	// A copy has no bulk-market value even when the underlying type
	// or the item itself has a price on record.
	if got := table.ItemPrice(1002, 5005, true); !got.IsZero() {
		t.Errorf("blueprint copy price = %s, want 0", got)
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	market := map[int64]decimal.Decimal{587: decimal.NewFromInt(100)}
	table := NewTable(market, nil)

	market[587] = decimal.NewFromInt(999)

	if got := table.ItemPrice(587, 0, false); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("table price = %s after caller mutation, want 100", got)
	}
}

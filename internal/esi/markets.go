package esi

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/evetools/hangarstat/internal/domain"
)

type orderEntry struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int64   `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
	IsBuyOrder   bool    `json:"is_buy_order"`
}

type marketPriceEntry struct {
	TypeID        int64   `json:"type_id"`
	AveragePrice  float64 `json:"average_price"`
	AdjustedPrice float64 `json:"adjusted_price"`
}

// FetchOrders fetches the owner's open market orders.
func (c *Client) FetchOrders(ctx context.Context, owner domain.Owner) ([]domain.MarketOrder, error) {
	entries, err := getPaged[orderEntry](ctx, c, ownerPath(owner, "orders"))
	if err != nil {
		return nil, fmt.Errorf("fetching orders for %s: %w", owner.Key(), err)
	}

	return lo.Map(entries, func(e orderEntry, _ int) domain.MarketOrder {
		return domain.MarketOrder{
			OrderID:      e.OrderID,
			TypeID:       e.TypeID,
			LocationID:   e.LocationID,
			Price:        decimal.NewFromFloat(e.Price),
			VolumeRemain: e.VolumeRemain,
			IsBuyOrder:   e.IsBuyOrder,
		}
	}), nil
}

// FetchMarketPrices fetches the global average market prices by type. Types
// without an average price fall back to the adjusted price.
func (c *Client) FetchMarketPrices(ctx context.Context) (map[int64]decimal.Decimal, error) {
	var entries []marketPriceEntry
	if err := c.getJSON(ctx, "/markets/prices/", &entries); err != nil {
		return nil, fmt.Errorf("fetching market prices: %w", err)
	}

	prices := make(map[int64]decimal.Decimal, len(entries))
	for _, e := range entries {
		price := e.AveragePrice
		if price == 0 {
			price = e.AdjustedPrice
		}
		if price > 0 {
			prices[e.TypeID] = decimal.NewFromFloat(price)
		}
	}
	return prices, nil
}

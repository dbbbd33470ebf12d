// Package market talks to the market-data provider and derives usable
// prices from raw listing snapshots.
package market

import (
	"context"
	"sort"
)

// Listing is one market offer for an item: the price a buyer pays per unit.
type Listing struct {
	PricePerUnit int `json:"pricePerUnit"`
}

// Provider returns a snapshot of current listings for an item on a world.
// A failed or empty fetch is an error here; callers translate it into the
// "no data" price of zero rather than propagating it.
type Provider interface {
	Listings(ctx context.Context, world string, itemID int) ([]Listing, error)
}

// lowSubsetSize caps how many of the cheapest listings feed the sane price.
const lowSubsetSize = 10

// SanePrice derives a single representative price from a listings snapshot.
//
// Only strictly positive prices count. The cheapest min(10, n) listings are
// kept and the element at index n/2 of that ascending slice is returned:
// low enough to ignore far-above-market offers, but not the absolute
// minimum, so a single troll-low listing cannot drag the price down.
// Returns 0 when no positive-price listing exists.
func SanePrice(listings []Listing) int {
	prices := make([]int, 0, len(listings))
	for _, l := range listings {
		if l.PricePerUnit > 0 {
			prices = append(prices, l.PricePerUnit)
		}
	}
	if len(prices) == 0 {
		return 0
	}
	sort.Ints(prices)

	n := len(prices)
	if n > lowSubsetSize {
		n = lowSubsetSize
	}
	low := prices[:n]
	return low[len(low)/2]
}

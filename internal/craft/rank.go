package craft

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// TopN is how many rows a ranking pass returns.
	TopN = 20

	// outlierRatio guards against catalog or listing garbage: a sell
	// price this many times above the unit cost is not a real margin.
	outlierRatio = 1000
)

// Skip reasons reported alongside the ranked rows.
const (
	SkipNoListings = "no sell listings"
	SkipNoCost     = "could not compute cost"
	SkipOutlier    = "outlier filtered"
	SkipBadYield   = "invalid output quantity"
)

var taxRate = decimal.New(5, -2) // 0.05

// ProfitRow is one ranked result: the economics of executing a recipe
// once and selling its output.
type ProfitRow struct {
	ItemID           int     `json:"itemId"`
	Name             string  `json:"name"`
	SellPricePerUnit int     `json:"sellPricePerUnit"`
	CostPerUnit      int     `json:"costPerUnit"`
	OutputQty        int     `json:"outputQty"`
	EstimatedTaxGil  int     `json:"estimatedTaxGil"`
	ProfitGil        int     `json:"profitGil"`
	ProfitPercent    float64 `json:"profitPercent"`
}

// SkippedItem records why a recipe was left out of the ranking.
type SkippedItem struct {
	ItemID    int    `json:"itemId"`
	Name      string `json:"name"`
	Reason    string `json:"error"`
	Note      string `json:"note,omitempty"`
	SellPrice int    `json:"sellPrice,omitempty"`
	UnitCost  int    `json:"unitCost,omitempty"`
}

// Rank evaluates every recipe in catalog order and returns the TopN most
// profitable, sorted by profit then profit percent, both descending.
// Recipes that cannot be ranked are reported in skipped, never silently
// dropped. The only error returned is context cancellation.
func (s *Session) Rank(ctx context.Context) ([]ProfitRow, []SkippedItem, error) {
	rows := make([]ProfitRow, 0, s.catalog.Len())
	skipped := make([]SkippedItem, 0)

	for _, r := range s.catalog.Recipes {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		// Catalog loading enforces a positive yield, but hand-built
		// catalogs can carry anything; a zero yield has no per-execution
		// economics to rank.
		if r.OutputQty <= 0 {
			skipped = append(skipped, SkippedItem{ItemID: r.ItemID, Name: r.Name, Reason: SkipBadYield})
			continue
		}

		sell := s.Price(ctx, r.ItemID)
		if sell <= 0 {
			skipped = append(skipped, SkippedItem{ItemID: r.ItemID, Name: r.Name, Reason: SkipNoListings})
			continue
		}

		unitCost, note := s.EvaluateCost(ctx, r.ItemID)
		if unitCost <= 0 {
			skipped = append(skipped, SkippedItem{ItemID: r.ItemID, Name: r.Name, Reason: SkipNoCost, Note: note})
			continue
		}

		if sell > unitCost*outlierRatio {
			skipped = append(skipped, SkippedItem{
				ItemID: r.ItemID, Name: r.Name, Reason: SkipOutlier,
				SellPrice: sell, UnitCost: unitCost,
			})
			continue
		}

		rows = append(rows, profitRow(r.ItemID, r.Name, sell, unitCost, r.OutputQty))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProfitGil != rows[j].ProfitGil {
			return rows[i].ProfitGil > rows[j].ProfitGil
		}
		return rows[i].ProfitPercent > rows[j].ProfitPercent
	})
	if len(rows) > TopN {
		rows = rows[:TopN]
	}
	return rows, skipped, nil
}

// profitRow computes the economics of one recipe execution. Tax rounds
// half away from zero to whole gil; profit percent rounds to two decimal
// places. Decimal arithmetic keeps both reproducible.
func profitRow(itemID int, name string, sell, unitCost, outputQty int) ProfitRow {
	gross := decimal.NewFromInt(int64(sell) * int64(outputQty))
	costTotal := decimal.NewFromInt(int64(unitCost) * int64(outputQty))

	tax := gross.Mul(taxRate).Round(0)
	profit := gross.Sub(tax).Sub(costTotal)
	pct := profit.Div(costTotal).Mul(decimal.NewFromInt(100)).Round(2)

	return ProfitRow{
		ItemID:           itemID,
		Name:             name,
		SellPricePerUnit: sell,
		CostPerUnit:      unitCost,
		OutputQty:        outputQty,
		EstimatedTaxGil:  int(tax.IntPart()),
		ProfitGil:        int(profit.IntPart()),
		ProfitPercent:    pct.InexactFloat64(),
	}
}

package craft

import (
	"context"
	"fmt"
)

// Provenance notes attached to every resolved unit cost.
const (
	NoteMemoized      = "memoized"
	NoteMarketOnly    = "market-only"
	NoteCraftOnly     = "craft-only"
	NoteCraftCheaper  = "craft-cheaper"
	NoteMarketCheaper = "market-cheaper"
	NoteCycle         = "cycle detected in recipe graph"
)

// EvaluateCost resolves the cheapest cost to obtain one unit of itemID:
// the recipe-derived craft cost when the item is craftable, the sane
// market price when it is not, and the minimum of the two when both exist.
//
// Failure is a value, not an error: unavailable data, cycles and missing
// ingredient costs all resolve to cost 0 with an explanatory note, and the
// session carries on.
func (s *Session) EvaluateCost(ctx context.Context, itemID int) (int, string) {
	if cost, ok := s.memo[itemID]; ok {
		return cost, NoteMemoized
	}

	// Reached via its own dependency chain. Not memoized: the same item
	// may still resolve later through a non-cyclic path.
	if _, ok := s.visiting[itemID]; ok {
		return 0, NoteCycle
	}

	// Market price is always the comparison baseline, and the answer
	// itself for non-craftable items.
	marketPrice := s.Price(ctx, itemID)

	recipe, craftable := s.catalog.ByID[itemID]
	if !craftable {
		s.memo[itemID] = marketPrice
		return marketPrice, NoteMarketOnly
	}

	s.visiting[itemID] = struct{}{}

	var sum int64
	for _, ing := range recipe.Ingredients {
		if ing.Qty <= 0 {
			continue
		}

		ingCost, ingNote := s.EvaluateCost(ctx, ing.ItemID)
		if ingCost <= 0 {
			// Not memoized: the failure may be transient across
			// snapshots, so a later session may succeed.
			delete(s.visiting, itemID)
			return 0, fmt.Sprintf("missing ingredient cost for %s (%d) [%s]", ing.Name, ing.ItemID, ingNote)
		}

		sum += int64(ingCost) * int64(ing.Qty)
	}

	delete(s.visiting, itemID)

	craftUnit := sum
	if recipe.OutputQty > 0 {
		craftUnit = ceilDiv(sum, int64(recipe.OutputQty))
	}

	var chosen int
	var note string
	if marketPrice > 0 {
		if craftUnit <= int64(marketPrice) {
			chosen, note = int(craftUnit), NoteCraftCheaper
		} else {
			chosen, note = marketPrice, NoteMarketCheaper
		}
	} else {
		chosen, note = int(craftUnit), NoteCraftOnly
	}

	s.memo[itemID] = chosen
	return chosen, note
}

func ceilDiv(sum, qty int64) int64 {
	return (sum + qty - 1) / qty
}

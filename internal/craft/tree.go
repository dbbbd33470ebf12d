package craft

import "context"

// CostNode is one node of an expanded crafting plan: the item, the
// quantity the parent craft needs, the resolved unit cost with its
// provenance note, and the sub-plan for craftable ingredients.
type CostNode struct {
	ItemID      int         `json:"itemId"`
	Name        string      `json:"name,omitempty"`
	Qty         int         `json:"qty"`
	UnitCost    int         `json:"unitCost"`
	TotalCost   int64       `json:"totalCost"`
	Note        string      `json:"note"`
	Craftable   bool        `json:"craftable"`
	Depth       int         `json:"depth"`
	Ingredients []*CostNode `json:"ingredients,omitempty"`
}

// CostTree expands the full crafting plan for qty units of itemID. Every
// node carries the same unit cost EvaluateCost would resolve for it, so
// the tree is a drill-down view of a cost query, not a second opinion.
// Cyclic recipe chains terminate at the repeated item with a cycle note.
func (s *Session) CostTree(ctx context.Context, itemID, qty int) *CostNode {
	if qty <= 0 {
		qty = 1
	}
	name := ""
	if r, ok := s.catalog.ByID[itemID]; ok {
		name = r.Name
	}
	return s.costTree(ctx, itemID, name, qty, 0, make(map[int]struct{}))
}

func (s *Session) costTree(ctx context.Context, itemID int, name string, qty, depth int, path map[int]struct{}) *CostNode {
	unitCost, note := s.EvaluateCost(ctx, itemID)
	node := &CostNode{
		ItemID:    itemID,
		Name:      name,
		Qty:       qty,
		UnitCost:  unitCost,
		TotalCost: int64(unitCost) * int64(qty),
		Note:      note,
		Depth:     depth,
	}

	recipe, ok := s.catalog.ByID[itemID]
	if !ok {
		return node
	}
	node.Craftable = true

	if _, seen := path[itemID]; seen {
		node.Note = NoteCycle
		return node
	}
	path[itemID] = struct{}{}
	defer delete(path, itemID)

	crafts := 1
	if recipe.OutputQty > 0 {
		crafts = (qty + recipe.OutputQty - 1) / recipe.OutputQty
	}
	for _, ing := range recipe.Ingredients {
		if ing.Qty <= 0 {
			continue
		}
		child := s.costTree(ctx, ing.ItemID, ing.Name, ing.Qty*crafts, depth+1, path)
		node.Ingredients = append(node.Ingredients, child)
	}
	return node
}

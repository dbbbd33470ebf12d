package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match is one item-name search hit. Distance 0 means an exact or
// substring match; higher values come from edit-distance scoring.
type Match struct {
	ItemID int    `json:"itemId"`
	Name   string `json:"name"`
	Dist   int    `json:"distance"`
}

// Search finds catalog items whose name approximately matches query.
// Both recipe outputs and ingredient names are searchable, so an item
// that is only ever a material can still be looked up. Results are
// ordered best-first and truncated to limit.
func (c *Catalog) Search(query string, limit int) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	names := c.nameIndex()
	matches := make([]Match, 0, 8)
	for id, name := range names {
		lower := strings.ToLower(name)
		var dist int
		switch {
		case lower == q:
			dist = 0
		case strings.Contains(lower, q):
			dist = 1
		default:
			dist = levenshtein.ComputeDistance(q, lower)
			if dist > fuzzyLimit(len(lower)) {
				continue
			}
			dist += 2 // rank below exact and substring hits
		}
		matches = append(matches, Match{ItemID: id, Name: name, Dist: dist})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Dist != matches[j].Dist {
			return matches[i].Dist < matches[j].Dist
		}
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ItemID < matches[j].ItemID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// nameIndex maps every known item id to a display name. Recipe output
// names win over ingredient names when both exist.
func (c *Catalog) nameIndex() map[int]string {
	names := make(map[int]string, len(c.Recipes)*4)
	for _, r := range c.Recipes {
		for _, ing := range r.Ingredients {
			if ing.Name != "" {
				names[ing.ItemID] = ing.Name
			}
		}
	}
	for _, r := range c.Recipes {
		if r.Name != "" {
			names[r.ItemID] = r.Name
		}
	}
	return names
}

func fuzzyLimit(n int) int {
	if n <= 4 {
		return 1
	}
	return n / 3
}

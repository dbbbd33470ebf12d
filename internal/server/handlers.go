package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hkeating27/Red-Crafter/internal/catalog"
	"github.com/hkeating27/Red-Crafter/internal/craft"
	"github.com/hkeating27/Red-Crafter/internal/market"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"app":           "Red Crafter",
		"recipes":       s.catalog.Len(),
		"catalogDigest": s.catalog.Digest,
	})
}

// handleCost resolves the recursive unit cost for a single item.
func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	world, itemID, ok := s.worldAndItem(w, r)
	if !ok {
		return
	}

	sess := craft.NewSession(world, s.catalog, s.provider, s.logger)
	cost, note := sess.EvaluateCost(r.Context(), itemID)
	s.logger.Printf("session %s: cost world=%s item=%d -> %d (%s)", sess.ID, world, itemID, cost, note)

	writeJSON(w, http.StatusOK, map[string]any{
		"world":           world,
		"itemId":          itemID,
		"computedCostGil": cost,
		"note":            note,
	})
}

// handleCostTree returns the full expansion of a crafting plan, with the
// resolved cost and provenance at every node.
func (s *Server) handleCostTree(w http.ResponseWriter, r *http.Request) {
	world, itemID, ok := s.worldAndItem(w, r)
	if !ok {
		return
	}
	qty := 1
	if raw := r.URL.Query().Get("qty"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "qty must be a positive integer")
			return
		}
		qty = n
	}

	sess := craft.NewSession(world, s.catalog, s.provider, s.logger)
	tree := sess.CostTree(r.Context(), itemID, qty)

	writeJSON(w, http.StatusOK, map[string]any{
		"world": world,
		"tree":  tree,
	})
}

// handleTopProfits runs a full ranking pass over the catalog.
func (s *Server) handleTopProfits(w http.ResponseWriter, r *http.Request) {
	world := r.URL.Query().Get("world")
	if world == "" {
		writeError(w, http.StatusBadRequest, "world is required")
		return
	}

	sess := craft.NewSession(world, s.catalog, s.provider, s.logger)
	rows, skipped, err := sess.Rank(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// client went away; nothing to write
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Printf("session %s: rank world=%s -> %d rows, %d skipped", sess.ID, world, len(rows), len(skipped))

	writeJSON(w, http.StatusOK, map[string]any{
		"world":        world,
		"items":        rows,
		"skippedCount": len(skipped),
		"skipped":      skipped,
	})
}

// handleCurrentPrice exposes the sane market price for any item, craftable
// or not. It bypasses session caching on purpose: this is the live view.
func (s *Server) handleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	world, itemID, ok := s.worldAndItem(w, r)
	if !ok {
		return
	}

	listingCount := 0
	sane := 0
	listings, err := s.provider.Listings(r.Context(), world, itemID)
	if err != nil {
		s.logger.Printf("current price world=%s item=%d: %v", world, itemID, err)
	} else {
		listingCount = len(listings)
		sane = market.SanePrice(listings)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"world":        world,
		"itemId":       itemID,
		"sanePrice":    sane,
		"listingCount": listingCount,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	matches := s.catalog.Search(q, 10)
	if matches == nil {
		matches = []catalog.Match{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"matches": matches,
	})
}

// worldAndItem parses the two required query parameters shared by the
// single-item endpoints.
func (s *Server) worldAndItem(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	world := r.URL.Query().Get("world")
	if world == "" {
		writeError(w, http.StatusBadRequest, "world is required")
		return "", 0, false
	}
	itemID, err := strconv.Atoi(r.URL.Query().Get("itemId"))
	if err != nil || itemID <= 0 {
		writeError(w, http.StatusBadRequest, "itemId must be a positive integer")
		return "", 0, false
	}
	return world, itemID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

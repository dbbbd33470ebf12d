// Package craft is the cost-resolution core: it blends the recipe catalog
// with market listing snapshots to find the cheapest way to obtain one
// unit of an item, and ranks craftable items by expected profit.
//
// All state lives in a Session created per external request. Sessions are
// never shared: concurrent requests each get their own price cache, cost
// memo and recursion state, so one request's memoization can never leak
// into another's.
package craft

import (
	"context"
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/hkeating27/Red-Crafter/internal/catalog"
	"github.com/hkeating27/Red-Crafter/internal/market"
)

// Session is one evaluation session: a single cost lookup or one full
// ranking pass. Within a session every resolved price and cost is stable;
// nothing is invalidated or recomputed, even if the market moves while the
// session runs.
//
// A Session is not safe for concurrent use. Create one per request.
type Session struct {
	// ID tags this session in logs.
	ID string
	// World is the market all prices are resolved against.
	World string

	catalog  *catalog.Catalog
	provider market.Provider
	logger   *log.Logger

	prices   map[int]int      // itemId -> sane price, zeros included
	memo     map[int]int      // itemId -> resolved unit cost
	visiting map[int]struct{} // items on the active recursion path
}

// NewSession creates a fresh session against world. logger may be nil.
func NewSession(world string, cat *catalog.Catalog, provider market.Provider, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		ID:       uuid.NewString(),
		World:    world,
		catalog:  cat,
		provider: provider,
		logger:   logger,
		prices:   make(map[int]int),
		memo:     make(map[int]int),
		visiting: make(map[int]struct{}),
	}
}

// Price resolves the sane market price for itemID, caching the result for
// the rest of the session. A failed or empty fetch resolves to 0 and the
// zero is cached too: within one session a missing price stays missing.
func (s *Session) Price(ctx context.Context, itemID int) int {
	if p, ok := s.prices[itemID]; ok {
		return p
	}

	listings, err := s.provider.Listings(ctx, s.World, itemID)
	if err != nil {
		s.logger.Printf("session %s: no listings for item %d: %v", s.ID, itemID, err)
		s.prices[itemID] = 0
		return 0
	}

	p := market.SanePrice(listings)
	s.prices[itemID] = p
	return p
}

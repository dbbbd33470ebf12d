// Package server is the HTTP boundary: it turns each request into one
// evaluation session and renders the session's results as JSON.
package server

import (
	"log"
	"net/http"
	"os"

	"github.com/hkeating27/Red-Crafter/internal/catalog"
	"github.com/hkeating27/Red-Crafter/internal/market"
)

// Server holds the process-wide collaborators: the immutable catalog and
// the market-data provider. Per-request state lives in craft.Session.
type Server struct {
	catalog  *catalog.Catalog
	provider market.Provider
	logger   *log.Logger
}

// New builds a Server. logger may be nil.
func New(cat *catalog.Catalog, provider market.Provider, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[server] ", log.LstdFlags)
	}
	return &Server{catalog: cat, provider: provider, logger: logger}
}

// Handler returns the API routes wrapped with request logging and brotli
// response compression.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/cost", s.handleCost)
	mux.HandleFunc("/api/cost/tree", s.handleCostTree)
	mux.HandleFunc("/api/profits/top", s.handleTopProfits)
	mux.HandleFunc("/api/universalis/current", s.handleCurrentPrice)
	mux.HandleFunc("/api/items/search", s.handleSearch)
	return withLogging(s.logger, withBrotli(mux))
}

package market

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/andybalholm/brotli"
)

const (
	// DefaultBaseURL is the public Universalis market-data API.
	DefaultBaseURL = "https://universalis.app"

	// listingsPerFetch bounds one snapshot query.
	listingsPerFetch = 1000
)

// UniversalisClient fetches listing snapshots from a Universalis-compatible
// HTTP API. One client is safe for concurrent use; connections are pooled.
type UniversalisClient struct {
	base   string
	client *http.Client
}

// NewUniversalisClient builds a client against base (DefaultBaseURL when
// empty). timeout bounds every snapshot fetch.
func NewUniversalisClient(base string, timeout time.Duration) *UniversalisClient {
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &UniversalisClient{
		base: base,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 32,
				IdleConnTimeout:     90 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
	}
}

type universalisResponse struct {
	Listings []Listing `json:"listings"`
}

// Listings fetches the current listing snapshot for itemID on world.
func (c *UniversalisClient) Listings(ctx context.Context, world string, itemID int) ([]Listing, error) {
	u := fmt.Sprintf("%s/api/v2/%s/%d?listings=%d&fields=listings.pricePerUnit",
		c.base, url.PathEscape(world), itemID, listingsPerFetch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching listings for item %d on %s: %w", itemID, world, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings for item %d on %s: status %d", itemID, world, resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading listings for item %d on %s: %w", itemID, world, err)
	}

	var out universalisResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing listings for item %d on %s: %w", itemID, world, err)
	}
	return out.Listings, nil
}

// decodeBody unwraps the negotiated content encoding. Setting
// Accept-Encoding by hand disables the transport's transparent gzip
// handling, so both encodings are decoded here.
func decodeBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch resp.Header.Get("Content-Encoding") {
	case "br":
		r = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

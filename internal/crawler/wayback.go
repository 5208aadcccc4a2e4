package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// WaybackSource queries the Internet Archive's CDX API for historically
// crawled URLs under a domain, contributing HISTORIC-provenance edges.
// Adapted from the teacher's WaybackMachine client: same CDX query shape,
// generalized interest filter (utils.IsInterestingPath instead of the
// teacher's payment-only filter), writing into the shared Cache/Graph.
type WaybackSource struct {
	Client *http.Client
	Cache  *cache.Cache
	Graph  *Graph
	logger *utils.Logger
}

// NewWaybackSource builds a WaybackSource.
func NewWaybackSource(c *cache.Cache, graph *Graph, logger *utils.Logger) *WaybackSource {
	return &WaybackSource{
		Client: utils.NewHTTPClient(30 * time.Second),
		Cache:  c,
		Graph:  graph,
		logger: logger,
	}
}

// Search queries the CDX API for domain and records interesting historic
// URLs. Network failure here is non-fatal — it simply yields no HISTORIC
// edges for this scan.
func (w *WaybackSource) Search(ctx context.Context, domain string) error {
	apiURL := fmt.Sprintf("http://web.archive.org/cdx/search/cdx?url=%s/*&output=json&fl=original,mimetype,statuscode&filter=statuscode:200&collapse=urlkey", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("wayback machine query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wayback machine returned status %d", resp.StatusCode)
	}

	var rows [][]string
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return fmt.Errorf("decode wayback response: %w", err)
	}
	if len(rows) > 0 {
		rows = rows[1:] // header row
	}

	found := 0
	for _, row := range rows {
		if len(row) < 1 {
			continue
		}
		rawURL := row[0]
		if !utils.IsInterestingPath(rawURL) {
			continue
		}
		w.record(rawURL)
		found++
	}
	if w.logger != nil {
		w.logger.Success("Wayback Machine found %d potential endpoints", found)
	}
	return nil
}

func (w *WaybackSource) record(rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return
	}
	w.Cache.AddEndpoint(rawURL, "wayback")
	endpointKey := cache.NormalizeEndpoint(u.Scheme + "://" + u.Host + u.Path)
	for name := range u.Query() {
		w.Cache.AddParam(rawURL, name, "wayback")
		w.Graph.AddEdge(endpointKey, name, models.ProvenanceHistoric)
	}
}

package crawler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// HTTPCrawler is the primary fast HTTP-only crawler spec.md §4.6 runs on
// every scan: depth-bounded, same-domain-only, goquery-based link/form
// extraction. Adapted from the teacher's browser-driven Crawler — same
// visited-set/depth-limit/recursion shape, minus the browser dependency.
type HTTPCrawler struct {
	BaseURL     string
	MaxDepth    int
	Concurrency int
	Client      *http.Client
	Graph       *Graph
	Cache       *cache.Cache
	Creds       *models.Credentials
	logger      *utils.Logger

	visited sync.Map
}

// NewHTTPCrawler builds a crawler seeded at baseURL, writing discovered
// endpoints/params into c and edges into graph. creds may be nil.
func NewHTTPCrawler(baseURL string, maxDepth int, c *cache.Cache, graph *Graph, creds *models.Credentials, logger *utils.Logger) *HTTPCrawler {
	return &HTTPCrawler{
		BaseURL:     baseURL,
		MaxDepth:    maxDepth,
		Concurrency: 5,
		Client:      utils.NewHTTPClient(10 * time.Second),
		Graph:       graph,
		Cache:       c,
		Creds:       creds,
		logger:      logger,
	}
}

// Crawl runs the crawl to completion or until ctx's deadline (spec.md
// §4.6's ≤15s wall-clock budget), seeded from BaseURL. A crawl timeout is
// not an error: the gate proceeds without it, using whatever signals are
// already in cache.
func (h *HTTPCrawler) Crawl(ctx context.Context) {
	h.crawlURL(ctx, utils.NormalizeURL(h.BaseURL), 0)
}

func (h *HTTPCrawler) crawlURL(ctx context.Context, targetURL string, depth int) {
	if ctx.Err() != nil || depth > h.MaxDepth {
		return
	}
	if _, loaded := h.visited.LoadOrStore(targetURL, true); loaded {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return
	}
	for name, value := range DefaultBrowserHeaders() {
		req.Header.Set(name, value)
	}
	ApplyCredentialHeaders(req, h.Creds)
	resp, err := h.Client.Do(req)
	if err != nil {
		if h.logger != nil {
			h.logger.Debug("crawl: failed to fetch %s: %v", targetURL, err)
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 500 {
		h.Cache.AddLiveEndpoint(targetURL, "crawler")
	}
	h.Cache.AddEndpoint(targetURL, "crawler")
	h.recordQueryParams(targetURL)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return
	}

	h.extractForms(doc, targetURL)

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		abs := resolveURL(targetURL, href)
		if abs != "" {
			links = append(links, abs)
		}
	})

	for _, link := range links {
		if ctx.Err() != nil {
			return
		}
		if utils.IsSameDomain(h.BaseURL, link) {
			h.crawlURL(ctx, link, depth+1)
		}
	}
}

// recordQueryParams extracts a URL's query parameters as URL_QUERY edges.
func (h *HTTPCrawler) recordQueryParams(rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	endpointKey := cache.NormalizeEndpoint(u.Scheme + "://" + u.Host + u.Path)
	for name := range u.Query() {
		h.Cache.AddParam(rawURL, name, "crawler")
		h.Graph.AddEdge(endpointKey, name, models.ProvenanceURLQuery)
	}
}

// extractForms walks every <form> on the page, recording each input name
// as a FORM-provenance edge on the form's action endpoint.
func (h *HTTPCrawler) extractForms(doc *goquery.Document, pageURL string) {
	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		action, _ := form.Attr("action")
		actionURL := resolveURL(pageURL, action)
		if actionURL == "" {
			actionURL = pageURL
		}
		endpointKey := cache.NormalizeEndpoint(actionURL)
		h.Cache.AddEndpoint(actionURL, "crawler")

		form.Find("input[name], textarea[name], select[name]").Each(func(_ int, field *goquery.Selection) {
			name, ok := field.Attr("name")
			if !ok || name == "" {
				return
			}
			h.Cache.AddParam(actionURL, name, "crawler")
			h.Graph.AddEdge(endpointKey, name, models.ProvenanceForm)
		})
	})
}

func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "javascript:") || strings.HasPrefix(ref, "mailto:") {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}

package crawler

import (
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// GateConfig configures one Crawl phase run.
type GateConfig struct {
	MaxDepth      int
	CrawlTimeout  time.Duration
	EnableJSCrawl bool
	BrowserType   string
	Headless      bool
	WordlistPath  string
	Creds         *models.Credentials
}

// DefaultGateConfig matches spec.md §4.6's defaults: depth 2, ≤15s
// wall-clock crawl budget.
func DefaultGateConfig() GateConfig {
	return GateConfig{MaxDepth: 2, CrawlTimeout: 15 * time.Second}
}

// Gate runs the full Crawl phase, one step after another: the mandatory
// HTTP crawl, then the native supplements (JS static analysis, GraphQL
// introspection, Wayback CDX for root-domain and subdomain profiles,
// common-path seeding), then the optional JS-capable enhancer for
// SUBDOMAIN/IP profiles. Implements spec.md §4.6's contract: exactly one
// crawl; a timeout proceeds without gating rather than failing the scan.
func Gate(ctx context.Context, profile *models.Profile, c *cache.Cache, cfg GateConfig, logger *utils.Logger) *Graph {
	graph := NewGraph(models.DefaultHeuristicWordlists())

	crawlCtx, cancel := context.WithTimeout(ctx, cfg.CrawlTimeout)
	defer cancel()

	baseURL := models.TargetFor(profile).URL
	primary := NewHTTPCrawler(baseURL, cfg.MaxDepth, c, graph, cfg.Creds, logger)
	primary.Crawl(crawlCtx)

	jsAnalyzer := NewJSAnalyzer(c, graph, logger)
	analyzeReachablePages(crawlCtx, primary, jsAnalyzer, baseURL)

	graphqlProbe := NewGraphQLProbe(baseURL, c, graph, logger)
	graphqlProbe.Discover(crawlCtx)

	if profile.BaseDomain != "" || profile.TargetType == models.TargetRootDomain {
		domain := profile.BaseDomain
		if domain == "" {
			domain = profile.Host
		}
		wayback := NewWaybackSource(c, graph, logger)
		_ = wayback.Search(crawlCtx, domain)
	}

	seeder := NewPathSeeder(baseURL, cfg.WordlistPath, c, logger)
	seeder.Seed(crawlCtx)

	if cfg.EnableJSCrawl && (profile.TargetType == models.TargetSubdomain || profile.TargetType == models.TargetIP) {
		runJSEnhancer(crawlCtx, profile, c, graph, cfg, logger)
	}

	// A crawl timeout is not gated against: whatever the graph accumulated
	// before cancellation is what later phases see.
	graph.Finalize()
	return graph
}

// analyzeReachablePages re-fetches the seed page once more (outside the
// crawler's internal visited set) purely to hand its parsed DOM to the JS
// analyzer, since the primary crawler does not expose intermediate
// documents to callers.
func analyzeReachablePages(ctx context.Context, primary *HTTPCrawler, js *JSAnalyzer, seedURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, seedURL, nil)
	if err != nil {
		return
	}
	ApplyCredentialHeaders(req, primary.Creds)
	resp, err := primary.Client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return
	}
	js.AnalyzeDocument(ctx, doc, seedURL)
}

func runJSEnhancer(ctx context.Context, profile *models.Profile, c *cache.Cache, graph *Graph, cfg GateConfig, logger *utils.Logger) {
	browserType := cfg.BrowserType
	if browserType == "" {
		browserType = "firefox"
	}
	jsCrawler, err := NewJSCrawler(browserType, cfg.Headless, c, graph, logger)
	if err != nil {
		if logger != nil {
			logger.Debug("js-crawl enhancer unavailable: %v", err)
		}
		return
	}
	defer jsCrawler.Close()

	if cfg.Creds != nil {
		_ = jsCrawler.ApplyCredentials(cfg.Creds, profile.Host)
	}
	jsCrawler.Crawl(ctx, models.TargetFor(profile).URL, cfg.MaxDepth)
}

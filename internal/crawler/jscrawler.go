package crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// JSCrawler is the optional JS-capable crawl enhancer spec.md §4.6 allows
// for SUBDOMAIN/IP profiles only (ROOT_DOMAIN skips it — observed too slow
// on large roots). Adapted from the teacher's Browser: same Playwright
// launch/context/page shape and anti-detection launch args, stripped of
// the manual-login wait and WebSocket interception this engine never does.
type JSCrawler struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	Cache   *cache.Cache
	Graph   *Graph
	logger  *utils.Logger
	visited sync.Map
}

// NewJSCrawler launches a headless (by default) browser of browserType
// ("chromium", "firefox", "webkit"; default firefox, matching the
// teacher's default).
func NewJSCrawler(browserType string, headless bool, c *cache.Cache, graph *Graph, logger *utils.Logger) (*JSCrawler, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}

	var browser playwright.Browser
	switch browserType {
	case "chromium":
		browser, err = pw.Chromium.Launch(launchOptions)
	case "webkit":
		browser, err = pw.WebKit.Launch(launchOptions)
	default:
		browser, err = pw.Firefox.Launch(launchOptions)
	}
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		Viewport:          &playwright.Size{Width: 1920, Height: 1080},
		Locale:            playwright.String("en-US"),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &JSCrawler{
		pw: pw, browser: browser, context: browserCtx, page: page,
		Cache: c, Graph: graph, logger: logger,
	}, nil
}

// Close tears down the browser and Playwright driver.
func (j *JSCrawler) Close() {
	j.page.Close()
	j.context.Close()
	j.browser.Close()
	j.pw.Stop()
}

// ApplyCredentials injects the scan's single optional credential set as
// cookies, so authenticated pages render their real link/form structure.
func (j *JSCrawler) ApplyCredentials(creds *models.Credentials, domain string) error {
	if creds == nil {
		return nil
	}
	var cookies []playwright.OptionalCookie
	for name, value := range creds.Cookies {
		cookies = append(cookies, playwright.OptionalCookie{
			Name: name, Value: value, Domain: playwright.String(domain), Path: playwright.String("/"),
		})
	}
	if len(cookies) == 0 {
		return nil
	}
	return j.context.AddCookies(cookies)
}

// Crawl walks same-domain links from seedURL, rendering JS before
// extracting hrefs — the enhancer's value over the primary HTTP crawler.
func (j *JSCrawler) Crawl(ctx context.Context, seedURL string, maxDepth int) {
	j.crawl(ctx, seedURL, 0, maxDepth)
}

func (j *JSCrawler) crawl(ctx context.Context, targetURL string, depth, maxDepth int) {
	if ctx.Err() != nil || depth > maxDepth {
		return
	}
	if _, loaded := j.visited.LoadOrStore(targetURL, true); loaded {
		return
	}

	_, err := j.page.Goto(targetURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(15000),
	})
	if err != nil {
		if j.logger != nil {
			j.logger.Debug("js-crawl: failed to navigate to %s: %v", targetURL, err)
		}
		return
	}
	j.Cache.AddLiveEndpoint(targetURL, "js-crawler")

	result, err := j.page.Evaluate(`() => Array.from(document.querySelectorAll('a')).map(a => a.href).filter(h => h.startsWith('http'))`)
	if err != nil {
		return
	}
	links, _ := result.([]interface{})

	var toVisit []string
	for _, l := range links {
		if s, ok := l.(string); ok {
			toVisit = append(toVisit, s)
		}
	}

	for _, link := range toVisit {
		if ctx.Err() != nil {
			return
		}
		j.crawl(ctx, link, depth+1, maxDepth)
	}
}

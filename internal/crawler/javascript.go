package crawler

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// JSAnalyzer fetches script files referenced by the page and regex-scans
// them for endpoint-shaped string literals, contributing JS_DETECTED
// edges. Adapted from the teacher's browser-driven JSAnalyzer: same
// path-regex/false-positive-filter approach, fetched directly over HTTP
// instead of through a live browser page.
type JSAnalyzer struct {
	Client *http.Client
	Cache  *cache.Cache
	Graph  *Graph
	logger *utils.Logger
}

// NewJSAnalyzer builds a JSAnalyzer writing into c and graph.
func NewJSAnalyzer(c *cache.Cache, graph *Graph, logger *utils.Logger) *JSAnalyzer {
	return &JSAnalyzer{
		Client: utils.NewHTTPClient(10 * time.Second),
		Cache:  c,
		Graph:  graph,
		logger: logger,
	}
}

var pathLiteralRegex = regexp.MustCompile(`["'](/[a-zA-Z0-9_\-/]+|https?://[^"']+)["']`)

var jsFalsePositives = []string{
	"application/json", "text/html", "use strict",
	".js", ".css", ".png", ".jpg", ".svg", ".woff",
	"//", "http://www.w3.org",
}

// AnalyzeDocument scans every <script src> referenced by doc (already
// fetched for pageURL) for endpoint-shaped literals.
func (j *JSAnalyzer) AnalyzeDocument(ctx context.Context, doc *goquery.Document, pageURL string) {
	var scripts []string
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		abs := resolveURL(pageURL, src)
		if abs != "" {
			scripts = append(scripts, abs)
		}
	})

	for _, scriptURL := range scripts {
		if ctx.Err() != nil {
			return
		}
		j.analyzeScript(ctx, scriptURL)
	}
}

func (j *JSAnalyzer) analyzeScript(ctx context.Context, scriptURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scriptURL, nil)
	if err != nil {
		return
	}
	resp, err := j.Client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	body, err := utils.ReadResponseBody(resp)
	if err != nil {
		return
	}

	content := string(body)
	matches := pathLiteralRegex.FindAllStringSubmatch(content, -1)
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		path := m[1]
		if isJSFalsePositive(path) {
			continue
		}
		abs := resolveURL(scriptURL, path)
		if abs == "" {
			continue
		}
		j.recordEndpoint(abs)
	}
}

func (j *JSAnalyzer) recordEndpoint(rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return
	}
	j.Cache.AddEndpoint(rawURL, "js-analysis")
	endpointKey := cache.NormalizeEndpoint(u.Scheme + "://" + u.Host + u.Path)
	for name := range u.Query() {
		j.Cache.AddParam(rawURL, name, "js-analysis")
		j.Graph.AddEdge(endpointKey, name, models.ProvenanceJSDetected)
	}
}

func isJSFalsePositive(path string) bool {
	if len(path) < 4 {
		return true
	}
	isAbsolute := strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
	for _, fp := range jsFalsePositives {
		if fp == "//" && isAbsolute {
			// A protocol-relative-URL marker would otherwise reject every
			// absolute http(s) literal, since "://" itself contains "//".
			continue
		}
		if strings.Contains(path, fp) {
			return true
		}
	}
	return false
}

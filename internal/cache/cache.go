// Package cache implements the Discovery Cache (spec.md §4.2): the shared,
// thread-safe accumulator every phase writes discovered facts into and every
// later phase (ledger, planner, crawler, findings) reads back out of.
package cache

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/resolver"
)

// Cache accumulates discovery facts across phases. All methods are safe for
// concurrent use — the scheduler runs many tools per phase in parallel and
// every tool's parser writes into the same Cache.
type Cache struct {
	mu sync.RWMutex

	ports         map[int]bool
	endpoints     map[string]bool
	liveEndpoints map[string]bool
	params        map[string]*paramState
	reflections   map[string]bool
	subdomains    map[string]bool
	verifiedSubs  map[string]bool
	tech          map[string]bool

	sourceOf map[string]string // fact key -> first tool that reported it

	wordlists models.HeuristicWordlists
}

type paramState struct {
	endpoint    string
	name        string
	commandLike bool
	ssrfLike    bool
}

// New builds an empty Cache using the given heuristic word lists to classify
// parameters as command-shaped or SSRF-shaped as they are added.
func New(wordlists models.HeuristicWordlists) *Cache {
	return &Cache{
		ports:         map[int]bool{},
		endpoints:     map[string]bool{},
		liveEndpoints: map[string]bool{},
		params:        map[string]*paramState{},
		reflections:   map[string]bool{},
		subdomains:    map[string]bool{},
		verifiedSubs:  map[string]bool{},
		tech:          map[string]bool{},
		sourceOf:      map[string]string{},
		wordlists:     wordlists,
	}
}

// NormalizeEndpoint lowercases scheme and host, collapses duplicate slashes
// in the path, strips a trailing slash unless the path is the root, and
// drops the query string — the canonical identity form every
// add_endpoint/add_live_endpoint/add_param call keys on, per spec.md §4.2's
// "query stripped for identity but retained separately" rule: the query is
// never part of the identity key, only the path is.
func NormalizeEndpoint(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	path := u.Path
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	u.Path = path
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func (c *Cache) recordSource(key, tool string) {
	if tool == "" {
		return
	}
	if _, exists := c.sourceOf[key]; !exists {
		c.sourceOf[key] = tool
	}
}

// AddPort records an open port discovered by tool. Idempotent.
func (c *Cache) AddPort(port int, tool string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ports[port] = true
	c.recordSource(portKey(port), tool)
}

func portKey(p int) string { return "port:" + strconv.Itoa(p) }

// AddEndpoint records a discovered (not necessarily live) endpoint.
func (c *Cache) AddEndpoint(rawURL, tool string) {
	norm := NormalizeEndpoint(rawURL)
	if norm == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints[norm] = true
	c.recordSource("endpoint:"+norm, tool)
}

// AddLiveEndpoint records an endpoint confirmed to respond (2xx/3xx/4xx,
// i.e. reachable at the transport+HTTP layer). Implies AddEndpoint.
func (c *Cache) AddLiveEndpoint(rawURL, tool string) {
	norm := NormalizeEndpoint(rawURL)
	if norm == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints[norm] = true
	c.liveEndpoints[norm] = true
	c.recordSource("live:"+norm, tool)
}

// AddParam records a discovered request parameter on endpoint, classifying
// it as command-shaped and/or SSRF-shaped against the configured heuristic
// word lists (spec.md §3/§4.2).
func (c *Cache) AddParam(rawURL, name, tool string) {
	norm := NormalizeEndpoint(rawURL)
	if norm == "" || name == "" {
		return
	}
	key := norm + "?" + name
	c.mu.Lock()
	defer c.mu.Unlock()

	st, exists := c.params[key]
	if !exists {
		st = &paramState{endpoint: norm, name: name}
		c.params[key] = st
	}
	lower := strings.ToLower(name)
	for _, kw := range c.wordlists.CommandShaped {
		if strings.Contains(lower, kw) {
			st.commandLike = true
			break
		}
	}
	for _, kw := range c.wordlists.SSRFShaped {
		if strings.Contains(lower, kw) {
			st.ssrfLike = true
			break
		}
	}
	c.recordSource("param:"+key, tool)
}

// AddReflection records that a parameter's value was observed reflected
// unescaped in a response.
func (c *Cache) AddReflection(rawURL, name, tool string) {
	norm := NormalizeEndpoint(rawURL)
	if norm == "" || name == "" {
		return
	}
	key := norm + "?" + name
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reflections[key] = true
	c.recordSource("reflection:"+key, tool)
}

// AddSubdomain records a candidate subdomain (not yet DNS-verified).
func (c *Cache) AddSubdomain(host, tool string) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subdomains[host] = true
	c.recordSource("subdomain:"+host, tool)
}

// AddTech records a fingerprinted technology hint (server software, CMS,
// WAF vendor as "waf:<vendor>", etc).
func (c *Cache) AddTech(tech, tool string) {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tech[tech] = true
	c.recordSource("tech:"+tech, tool)
}

// VerifySubdomains DNS-resolves every candidate subdomain added so far via
// res and marks the resolvable subset verified. Implements
// verify_subdomains from spec.md §4.2. cmd/scanner does not call it, so a
// normal scan leaves the verified set empty.
func (c *Cache) VerifySubdomains(ctx context.Context, res *resolver.Resolver) {
	c.mu.RLock()
	candidates := make([]string, 0, len(c.subdomains))
	for h := range c.subdomains {
		candidates = append(candidates, h)
	}
	c.mu.RUnlock()

	verified := res.ResolvableBatch(ctx, candidates, 20)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range verified {
		c.verifiedSubs[h] = true
	}
}

// --- aggregate predicates (spec.md §4.2) ---

// HasLiveEndpoints reports whether any endpoint has been confirmed live.
func (c *Cache) HasLiveEndpoints() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.liveEndpoints) > 0
}

// HasParams reports whether any parameter has been discovered.
func (c *Cache) HasParams() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.params) > 0
}

// HasCommandParams reports whether any discovered parameter is
// command-shaped.
func (c *Cache) HasCommandParams() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, st := range c.params {
		if st.commandLike {
			return true
		}
	}
	return false
}

// HasSSRFParams reports whether any discovered parameter is SSRF-shaped.
func (c *Cache) HasSSRFParams() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, st := range c.params {
		if st.ssrfLike {
			return true
		}
	}
	return false
}

// HasReflections reports whether any parameter reflection has been seen.
func (c *Cache) HasReflections() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reflections) > 0
}

// Ports returns every recorded open port, sorted ascending.
func (c *Cache) Ports() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.ports))
	for p := range c.ports {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// PortOpen reports whether a specific port was recorded open.
func (c *Cache) PortOpen(port int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ports[port]
}

// Endpoints returns every discovered endpoint, sorted.
func (c *Cache) Endpoints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.endpoints)
}

// LiveEndpoints returns every endpoint confirmed live, sorted.
func (c *Cache) LiveEndpoints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.liveEndpoints)
}

// Subdomains returns every candidate subdomain, sorted.
func (c *Cache) Subdomains() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.subdomains)
}

// VerifiedSubdomains returns every DNS-verified subdomain, sorted.
func (c *Cache) VerifiedSubdomains() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.verifiedSubs)
}

// TechHints returns every fingerprinted technology hint, sorted.
func (c *Cache) TechHints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.tech)
}

// Params returns every (endpoint, name) pair discovered, with classification.
func (c *Cache) Params() []models.ParamEdge {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.ParamEdge, 0, len(c.params))
	for _, st := range c.params {
		out = append(out, models.ParamEdge{Endpoint: st.endpoint, Parameter: st.name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].Parameter < out[j].Parameter
	})
	return out
}

// CommandParams returns every parameter classified command-shaped.
func (c *Cache) CommandParams() []models.ParamEdge {
	return c.filterParams(func(st *paramState) bool { return st.commandLike })
}

// SSRFParams returns every parameter classified SSRF-shaped.
func (c *Cache) SSRFParams() []models.ParamEdge {
	return c.filterParams(func(st *paramState) bool { return st.ssrfLike })
}

func (c *Cache) filterParams(pred func(*paramState) bool) []models.ParamEdge {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.ParamEdge
	for _, st := range c.params {
		if pred(st) {
			out = append(out, models.ParamEdge{Endpoint: st.endpoint, Parameter: st.name})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].Parameter < out[j].Parameter
	})
	return out
}

// SourceOf returns which tool first reported a fact key, for provenance
// reporting. The empty string means the fact was never recorded.
func (c *Cache) SourceOf(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sourceOf[key]
}

// paramEdgeStrings renders ParamEdges as "endpoint?name" for report display.
func paramEdgeStrings(edges []models.ParamEdge) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Endpoint+"?"+e.Parameter)
	}
	return out
}

// reflectionStrings renders the raw reflection keys ("endpoint?name"),
// sorted.
func (c *Cache) reflectionStrings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.reflections)
}

// Summary renders the cache's current contents as a models.CacheSummary for
// the final report.
func (c *Cache) Summary() models.CacheSummary {
	techHints := map[string]string{}
	for _, t := range c.TechHints() {
		techHints[t] = c.SourceOf("tech:" + t)
	}
	return models.CacheSummary{
		Ports:              c.Ports(),
		Endpoints:          c.Endpoints(),
		LiveEndpoints:      c.LiveEndpoints(),
		Params:             paramEdgeStrings(c.Params()),
		CommandParams:      paramEdgeStrings(c.CommandParams()),
		SSRFParams:         paramEdgeStrings(c.SSRFParams()),
		Reflections:        c.reflectionStrings(),
		Subdomains:         c.Subdomains(),
		VerifiedSubdomains: c.VerifiedSubdomains(),
		TechHints:          techHints,
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

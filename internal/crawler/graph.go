// Package crawler implements the Crawler Gate (spec.md §4.6): one HTTP
// crawl producing an EndpointGraph, plus the optional JS-capable enhancer
// and the three supplemental native discovery techniques (JS static
// analysis, GraphQL introspection, Wayback Machine CDX) that feed the
// graph's JS_DETECTED/API_SCHEMA/HISTORIC provenance.
package crawler

import (
	"sort"
	"strings"
	"sync"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// paramNode tracks one endpoint/parameter pair's accumulated markers.
type paramNode struct {
	endpoint    string
	parameter   string
	provenances map[models.EdgeProvenance]bool
	reflectable bool
	sql         bool
	cmd         bool
	ssrf        bool
}

// Graph is the endpoint→parameter graph the crawl builds. Thread-safe
// while open; Finalize freezes it.
type Graph struct {
	mu       sync.Mutex
	nodes    map[string]*paramNode // key: endpoint+"?"+parameter
	frozen   bool
	wordlist models.HeuristicWordlists
}

// NewGraph builds an empty, open Graph using the given heuristic word
// lists to classify command-shaped/SSRF-shaped parameters as edges arrive.
func NewGraph(wordlist models.HeuristicWordlists) *Graph {
	return &Graph{nodes: map[string]*paramNode{}, wordlist: wordlist}
}

// AddEdge records one endpoint→parameter edge with its discovery
// provenance. Safe to call from concurrent discovery goroutines until
// Finalize is called.
func (g *Graph) AddEdge(endpoint, parameter string, provenance models.EdgeProvenance) {
	if g.frozen {
		return
	}
	key := endpoint + "?" + parameter
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return
	}
	n, ok := g.nodes[key]
	if !ok {
		n = &paramNode{
			endpoint:    endpoint,
			parameter:   parameter,
			provenances: map[models.EdgeProvenance]bool{},
		}
		g.nodes[key] = n
	}
	n.provenances[provenance] = true
	n.cmd = n.cmd || matchesAny(parameter, g.wordlist.CommandShaped)
	n.ssrf = n.ssrf || matchesAny(parameter, g.wordlist.SSRFShaped)
}

// MarkReflected records that parameter on endpoint was observed reflected
// unescaped in a response body during the crawl.
func (g *Graph) MarkReflected(endpoint, parameter string) {
	key := endpoint + "?" + parameter
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nodes[key]; ok {
		n.reflectable = true
	}
}

func matchesAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Finalize freezes the graph; subsequent AddEdge calls are no-ops.
func (g *Graph) Finalize() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frozen = true
}

// ReflectableEndpoints returns endpoints with at least one parameter
// observed reflected, sorted.
func (g *Graph) ReflectableEndpoints() []string {
	return g.filterEndpoints(func(n *paramNode) bool { return n.reflectable })
}

// ParametricEndpoints returns every endpoint with at least one parameter.
func (g *Graph) ParametricEndpoints() []string {
	return g.filterEndpoints(func(n *paramNode) bool { return true })
}

// CommandParametricEndpoints returns parametric endpoints whose parameters
// match the command-shaped heuristic.
func (g *Graph) CommandParametricEndpoints() []string {
	return g.filterEndpoints(func(n *paramNode) bool { return n.cmd })
}

// FormsPresent reports whether any edge has FORM provenance — forms
// suffice as evidence for reflection-dependent tools per spec.md §4.6,
// even absent an observed reflection.
func (g *Graph) FormsPresent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		if n.provenances[models.ProvenanceForm] {
			return true
		}
	}
	return false
}

func (g *Graph) filterEndpoints(pred func(*paramNode) bool) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	set := map[string]bool{}
	for _, n := range g.nodes {
		if pred(n) {
			set[n.endpoint] = true
		}
	}
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Edges returns every accumulated ParamEdge with its markers applied,
// mirroring spec.md §3's EndpointGraph per-parameter marker set.
func (g *Graph) Edges() []models.ParamEdge {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.ParamEdge, 0, len(g.nodes))
	for _, n := range g.nodes {
		provenance := primaryProvenance(n.provenances)
		out = append(out, models.ParamEdge{Endpoint: n.endpoint, Parameter: n.parameter, Provenance: provenance})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Endpoint != out[j].Endpoint {
			return out[i].Endpoint < out[j].Endpoint
		}
		return out[i].Parameter < out[j].Parameter
	})
	return out
}

// primaryProvenance picks a stable representative provenance when an edge
// was discovered by more than one technique, preferring the strongest
// signal order used by the confidence scorer (crawled > form > url_param).
func primaryProvenance(set map[models.EdgeProvenance]bool) models.EdgeProvenance {
	order := []models.EdgeProvenance{
		models.ProvenanceForm, models.ProvenanceURLQuery,
		models.ProvenanceAPISchema, models.ProvenanceJSDetected, models.ProvenanceHistoric,
	}
	for _, p := range order {
		if set[p] {
			return p
		}
	}
	return models.ProvenanceURLQuery
}

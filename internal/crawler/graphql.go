package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// GraphQLProbe discovers GraphQL endpoints by POSTing an introspection
// query against a fixed list of common paths. Adapted from the teacher's
// GraphQLScanner, generalized to write into the shared Cache/Graph instead
// of returning teacher Endpoint values, and to feed API_SCHEMA provenance.
type GraphQLProbe struct {
	BaseURL string
	Client  *http.Client
	Cache   *cache.Cache
	Graph   *Graph
	logger  *utils.Logger
}

// NewGraphQLProbe builds a probe against baseURL.
func NewGraphQLProbe(baseURL string, c *cache.Cache, graph *Graph, logger *utils.Logger) *GraphQLProbe {
	return &GraphQLProbe{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  utils.NewHTTPClient(10 * time.Second),
		Cache:   c,
		Graph:   graph,
		logger:  logger,
	}
}

var graphQLCommonPaths = []string{
	"/graphql", "/api/graphql", "/v1/graphql", "/query",
	"/api", "/gql", "/playground", "/graphiql", "/console",
}

// introspectionQuery is the minimal schema probe the teacher's scanner
// used; kept verbatim since it's the smallest query that reliably
// fingerprints a GraphQL endpoint.
const introspectionQuery = `query { __schema { types { name } } }`

// Discover probes every common GraphQL path and records any that answer
// with a recognizable GraphQL response shape.
func (g *GraphQLProbe) Discover(ctx context.Context) {
	for _, path := range graphQLCommonPaths {
		if ctx.Err() != nil {
			return
		}
		g.probe(ctx, g.BaseURL+path)
	}
}

func (g *GraphQLProbe) probe(ctx context.Context, url string) {
	payload, _ := json.Marshal(map[string]string{"query": introspectionQuery})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	body, err := utils.ReadResponseBody(resp)
	if err != nil {
		return
	}
	text := string(body)
	if !strings.Contains(text, "__schema") && !strings.Contains(text, "__type") && !strings.Contains(text, "data") {
		return
	}

	if g.logger != nil {
		g.logger.Success("GraphQL endpoint found: %s", url)
	}
	g.Cache.AddLiveEndpoint(url, "graphql-probe")
	endpointKey := cache.NormalizeEndpoint(url)
	g.Graph.AddEdge(endpointKey, "query", models.ProvenanceAPISchema)
	g.Cache.AddParam(url, "query", "graphql-probe")
}

package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestJSAnalyzerRecordsEndpointsFromScriptLiterals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/app.js", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`fetch("https://api.example.com/users?id=1"); var x = "use strict";`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := cache.New(models.DefaultHeuristicWordlists())
	graph := NewGraph(models.DefaultHeuristicWordlists())
	j := NewJSAnalyzer(c, graph, nil)

	pageHTML := `<html><head><script src="/app.js"></script></head><body></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	j.AnalyzeDocument(ctx, doc, srv.URL+"/")

	assert.Contains(t, c.Params(), models.ParamEdge{Endpoint: "https://api.example.com/users", Parameter: "id"})
}

func TestIsJSFalsePositiveFiltersNoise(t *testing.T) {
	assert.True(t, isJSFalsePositive("/x"))
	assert.True(t, isJSFalsePositive("application/json"))
	assert.False(t, isJSFalsePositive("/api/v1/orders"))
}

package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestAddEdgeClassifiesCommandShapedParameter(t *testing.T) {
	g := NewGraph(models.DefaultHeuristicWordlists())
	g.AddEdge("https://example.com/run", "cmd", models.ProvenanceURLQuery)

	assert.Contains(t, g.CommandParametricEndpoints(), "https://example.com/run")
	assert.Contains(t, g.ParametricEndpoints(), "https://example.com/run")
}

func TestMarkReflectedUpdatesExistingNode(t *testing.T) {
	g := NewGraph(models.DefaultHeuristicWordlists())
	g.AddEdge("https://example.com/search", "q", models.ProvenanceURLQuery)
	g.MarkReflected("https://example.com/search", "q")

	assert.Contains(t, g.ReflectableEndpoints(), "https://example.com/search")
}

func TestFormsPresentReflectsFormProvenance(t *testing.T) {
	g := NewGraph(models.DefaultHeuristicWordlists())
	assert.False(t, g.FormsPresent())

	g.AddEdge("https://example.com/login", "username", models.ProvenanceForm)
	assert.True(t, g.FormsPresent())
}

func TestFinalizeFreezesGraph(t *testing.T) {
	g := NewGraph(models.DefaultHeuristicWordlists())
	g.AddEdge("https://example.com/a", "x", models.ProvenanceURLQuery)
	g.Finalize()
	g.AddEdge("https://example.com/b", "y", models.ProvenanceURLQuery)

	assert.Len(t, g.Edges(), 1, "edges added after Finalize must be ignored")
}

func TestPrimaryProvenancePrefersFormOverURLQuery(t *testing.T) {
	g := NewGraph(models.DefaultHeuristicWordlists())
	g.AddEdge("https://example.com/a", "x", models.ProvenanceURLQuery)
	g.AddEdge("https://example.com/a", "x", models.ProvenanceForm)

	edges := g.Edges()
	assert.Len(t, edges, 1)
	assert.Equal(t, models.ProvenanceForm, edges[0].Provenance)
}

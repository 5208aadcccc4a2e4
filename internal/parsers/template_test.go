package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestTemplateUsesNucleisOwnSeverity(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "nuclei",
		StdoutHead: "[CVE-2021-44228] [http] [critical] https://example.com/api\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, Template(rec, c, reg))

	out := reg.Finalize()
	require.Len(t, out, 1)
	assert.Equal(t, models.SeverityCritical, out[0].Severity)
	assert.Equal(t, "https://example.com/api", out[0].Endpoint)
}

func TestTemplateIgnoresUnmatchedLines(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "nuclei",
		StdoutHead: "scanning templates...\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, Template(rec, c, reg))
	assert.Empty(t, reg.Finalize())
}

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestSSRFRegistersModuleHit(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "ssrfmap",
		StdoutHead: "[+] Requesting portscanner module\nfound open port 22 on internal host\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, SSRF("https://example.com/fetch?url=x")(rec, c, reg))

	out := reg.Finalize()
	require.NotEmpty(t, out)
	assert.Equal(t, models.SuccessConfirmedExecuted, out[0].SuccessIndicator)
}

func TestSSRFIgnoredWhenNotSuccessful(t *testing.T) {
	rec := &models.ExecutionRecord{Tool: "ssrfmap", StdoutHead: "[+] found open port\n", Outcome: models.OutcomeExecutedNoSignal}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, SSRF("https://example.com/fetch?url=x")(rec, c, reg))
	assert.Empty(t, reg.Finalize())
}

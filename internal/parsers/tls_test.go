package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestTLSFlagsWeakCipherLine(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "testssl",
		StdoutHead: "Testing example.com\nSWEET32 (CVE-2016-2183)    VULNERABLE, uses 64 bit block ciphers\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, TLS(rec, c, reg))
	assert.Contains(t, c.TechHints(), "tls:weak-config")

	out := reg.Finalize()
	require.Len(t, out, 1)
}

func TestTLSSkipsBannerLines(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "testssl",
		StdoutHead: "Testing example.com\nConnect to 93.184.216.34:443\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, TLS(rec, c, reg))
	assert.Empty(t, reg.Finalize())
}

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestSubdomainsParsesOneHostnamePerLine(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "subfinder",
		StdoutHead: "api.example.com\nwww.example.com\nnot a hostname\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, Subdomains(rec, c, reg))
	assert.ElementsMatch(t, []string{"api.example.com", "www.example.com"}, c.Subdomains())
}

func TestSubdomainsIgnoredWhenNotSuccessful(t *testing.T) {
	rec := &models.ExecutionRecord{Tool: "subfinder", StdoutHead: "api.example.com\n", Outcome: models.OutcomeExecutedNoSignal}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, Subdomains(rec, c, reg))
	assert.Empty(t, c.Subdomains())
}

func TestDNSFlagsSPFRecord(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "dns-enum",
		StdoutHead: "example.com.\t300\tIN\tTXT\t\"v=spf1 include:_spf.example.com ~all\"\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, DNS(rec, c, reg))
	assert.Contains(t, c.TechHints(), "dns:has-spf")
}

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestPortScanExtractsOpenPorts(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool: "nmap-quick",
		StdoutHead: "Starting Nmap\n" +
			"80/tcp   open  http\n" +
			"443/tcp  open  https\n" +
			"22/tcp   closed ssh\n",
		Outcome: models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, PortScan(rec, c, reg))
	assert.Equal(t, []int{80, 443}, c.Ports())
	assert.True(t, c.PortOpen(80))
	assert.False(t, c.PortOpen(22))
}

func TestPortScanVulnRegistersFindingOnVulnerableMarker(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool: "nmap-vuln",
		StdoutHead: "443/tcp open https\n" +
			"| ssl-heartbleed:\n" +
			"|   State: VULNERABLE\n",
		Outcome: models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, PortScanVuln(rec, c, reg))
	assert.Contains(t, c.Ports(), 443)

	out := reg.Finalize()
	require.Len(t, out, 1)
	assert.Equal(t, []string{"nmap-vuln"}, out[0].Tools)
}

func TestPortScanVulnSkipsFindingsWhenNotSuccessful(t *testing.T) {
	rec := &models.ExecutionRecord{Tool: "nmap-vuln", Outcome: models.OutcomeTimeout}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, PortScanVuln(rec, c, reg))
	assert.Empty(t, reg.Finalize())
}

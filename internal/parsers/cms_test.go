package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestCMSRegistersVulnerablePluginFinding(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "wpscan",
		StdoutHead: "[+] WordPress version 5.9 identified\n[!] Title: Contact Form 7 <5.5.4 - Unrestricted File Upload\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, CMS(rec, c, reg))
	assert.NotEmpty(t, c.TechHints())

	out := reg.Finalize()
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Evidence, "Contact Form 7")
}

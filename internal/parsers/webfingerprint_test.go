package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestWebFingerprintRecordsTechHintsAndCMS(t *testing.T) {
	rec := &models.ExecutionRecord{
		Tool:       "whatweb",
		StdoutHead: "https://example.com [200] WordPress[5.9], nginx[1.18.0], PHP[7.4.3]\n",
		Outcome:    models.OutcomeSuccessWithFindings,
	}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())
	p := &models.Profile{}

	require.NoError(t, WebFingerprint(p)(rec, c, reg))
	assert.Contains(t, c.TechHints(), "WordPress")
	assert.Contains(t, c.TechHints(), "nginx")
	assert.Equal(t, "wordpress", p.DetectedCMS())
}

func TestWebFingerprintIgnoredWhenNotSuccessful(t *testing.T) {
	rec := &models.ExecutionRecord{Tool: "whatweb", StdoutHead: "nginx[1.18.0]\n", Outcome: models.OutcomeExecutedNoSignal}
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())

	require.NoError(t, WebFingerprint(nil)(rec, c, reg))
	assert.Empty(t, c.TechHints())
}

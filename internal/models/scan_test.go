package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHeuristicWordlistsIncludesCommandAndSSRFShapes(t *testing.T) {
	wl := DefaultHeuristicWordlists()
	assert.Contains(t, wl.CommandShaped, "cmd")
	assert.Contains(t, wl.SSRFShaped, "url")
}

func TestDefaultScoringWeightsCoversCoreToolsAndPayloadOrder(t *testing.T) {
	w := DefaultScoringWeights()
	for _, tool := range []string{"sqlmap", "dalfox", "nuclei"} {
		_, ok := w.ToolReliability[tool]
		assert.True(t, ok, "missing tool reliability weight for %s", tool)
	}
	assert.Greater(t, w.PayloadConfirmed, w.PayloadPotential)
	assert.Greater(t, w.PayloadPotential, w.PayloadConfigIssue)
}

func TestProfileSnapshotIsAnIndependentCopy(t *testing.T) {
	p := &Profile{
		OriginalInput: "example.com",
		TargetType:    TargetRootDomain,
		Scope:         ScopeDomainTree,
		Host:          "example.com",
		Scheme:        "https",
		Port:          443,
		ResolvedIPs:   []string{"203.0.113.5"},
		Reachable:     true,
		HTTPSCapable:  true,
		WebTarget:     true,
		CreatedAt:     time.Unix(0, 0),
	}
	require.NoError(t, p.SetDetectedCMS("wordpress"))
	p.SetDetectedTech("nginx")

	snap := p.Snapshot()
	assert.Equal(t, "example.com", snap.Host)
	assert.Equal(t, "wordpress", snap.DetectedCMS)
	assert.Contains(t, snap.DetectedTech, "nginx")

	snap.ResolvedIPs[0] = "mutated"
	assert.Equal(t, "203.0.113.5", p.ResolvedIPs[0], "mutating the snapshot's slice must not affect the Profile")
}

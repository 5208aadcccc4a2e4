package parsers

import (
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// ssrfHitMarkers are substrings ssrfmap prints next to a confirmed module
// hit (it reports per-module, e.g. "[portscanner] found open port").
var ssrfHitMarkers = []string{"[+]", "found open port", "module", "vulnerable"}

// SSRF parses ssrfmap output for confirmed module hits.
func SSRF(url string) func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	return func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
		if rec.Outcome != models.OutcomeSuccessWithFindings {
			return nil
		}
		endpoint := cache.NormalizeEndpoint(url)
		for _, l := range lines(rec.StdoutHead + rec.StdoutTail) {
			lower := strings.ToLower(l)
			for _, marker := range ssrfHitMarkers {
				if strings.Contains(lower, marker) {
					f := newFinding(rec.Tool, "server-side request forgery", endpoint, "", l)
					if reg != nil {
						reg.Register(withIndicator(f, "confirmed_executed"))
					}
					break
				}
			}
		}
		return nil
	}
}

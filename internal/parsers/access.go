package parsers

import (
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// Access parses nikto's "+ <detail>" finding lines, skipping its
// banner/summary lines (those starting with "-" or containing "Target IP").
func Access(baseURL string) func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	return func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
		if rec.Outcome != models.OutcomeSuccessWithFindings {
			return nil
		}
		for _, l := range lines(rec.StdoutHead + rec.StdoutTail) {
			if !strings.HasPrefix(l, "+") {
				continue
			}
			detail := strings.TrimSpace(strings.TrimPrefix(l, "+"))
			if detail == "" || strings.HasPrefix(detail, "Target") || strings.HasPrefix(detail, "Start Time") || strings.HasPrefix(detail, "End Time") {
				continue
			}
			if reg != nil {
				reg.Register(newFinding(rec.Tool, detail, cache.NormalizeEndpoint(baseURL), "", l))
			}
		}
		return nil
	}
}

package parsers

import (
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// CMS parses wpscan's `[!] Title: ...` vulnerability-alert lines into
// findings. Plugin/theme/core version lines (`[+] WordPress version ...`)
// are recorded as tech hints only.
func CMS(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if rec.Outcome != models.OutcomeSuccessWithFindings {
		return nil
	}
	for _, l := range lines(stripANSI(rec.StdoutHead + rec.StdoutTail)) {
		switch {
		case strings.HasPrefix(l, "[!]") && strings.Contains(strings.ToLower(l), "title:"):
			title := strings.TrimSpace(strings.SplitN(l, "Title:", 2)[1])
			if reg != nil {
				reg.Register(newFinding(rec.Tool, "vulnerable plugin: "+title, "", "", l))
			}
		case strings.HasPrefix(l, "[+]") && strings.Contains(strings.ToLower(l), "identified"):
			c.AddTech("cms:"+strings.TrimSpace(strings.TrimPrefix(l, "[+]")), rec.Tool)
		}
	}
	return nil
}

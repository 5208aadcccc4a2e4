package parsers

import (
	"regexp"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// nucleiHit matches nuclei -silent's bracketed-tag line:
// "[template-id] [protocol] [severity] matched-url"
var nucleiHit = regexp.MustCompile(`^\[([^\]]+)\]\s+\[([^\]]+)\]\s+\[([^\]]+)\]\s+(\S+)`)

var nucleiSeverity = map[string]models.Severity{
	"critical": models.SeverityCritical,
	"high":     models.SeverityHigh,
	"medium":   models.SeverityMedium,
	"low":      models.SeverityLow,
	"info":     models.SeverityInfo,
}

// Template parses nuclei's one-line-per-match output. Severity comes
// straight from nuclei's own tag, overriding the taxonomy's base severity
// (nuclei's severity is template-authored and more precise than a keyword
// guess); category/CWE/remediation still come from the taxonomy keyed on
// the template ID.
func Template(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if rec.Outcome != models.OutcomeSuccessWithFindings {
		return nil
	}
	for _, l := range lines(stripANSI(rec.StdoutHead + rec.StdoutTail)) {
		m := nucleiHit.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		templateID, severityTag, matchedURL := m[1], strings.ToLower(m[3]), m[4]
		f := newFinding(rec.Tool, templateID, cache.NormalizeEndpoint(matchedURL), "", l)
		if sev, ok := nucleiSeverity[severityTag]; ok {
			f.Severity = sev
		}
		if reg != nil {
			reg.Register(f)
		}
	}
	return nil
}

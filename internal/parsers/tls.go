package parsers

import (
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// tlsWeakMarkers are substrings testssl.sh/sslyze print for a flagged
// weakness, lower-cased for matching.
var tlsWeakMarkers = []string{
	"vulnerable", "not ok", "weak", "sweet32", "beast", "poodle", "heartbleed",
	"robot", "logjam", "freak", "insecure renegotiation", "certificate has expired",
	"self-signed",
}

// TLS parses testssl.sh/sslyze output, registering one finding per flagged
// weakness line.
func TLS(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if rec.Outcome != models.OutcomeSuccessWithFindings {
		return nil
	}
	host := ""
	stdout := rec.StdoutHead + rec.StdoutTail
	for _, l := range lines(stripANSI(stdout)) {
		lower := strings.ToLower(l)
		if strings.HasPrefix(lower, "testing ") || strings.Contains(lower, "connect to") {
			continue
		}
		for _, marker := range tlsWeakMarkers {
			if strings.Contains(lower, marker) {
				c.AddTech("tls:weak-config", rec.Tool)
				if reg != nil {
					reg.Register(newFinding(rec.Tool, l, host, "", l))
				}
				break
			}
		}
	}
	return nil
}

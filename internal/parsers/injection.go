package parsers

import (
	"regexp"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

var sqlmapParamLine = regexp.MustCompile(`(?i)parameter:\s*'?([A-Za-z0-9_\[\]]+)'?\s*\(`)
var commixParamLine = regexp.MustCompile(`(?i)parameter\s+'([A-Za-z0-9_\[\]]+)'`)

// Injection parses sqlmap/commix output for confirmed or disconfirmed
// injection points. Neither tool is re-invoked with extra payloads by this
// parser — it only reads what the single batch run already produced.
func Injection(url string) func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	return func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
		endpoint := cache.NormalizeEndpoint(url)
		stdout := rec.StdoutHead + rec.StdoutTail
		lower := strings.ToLower(stdout)

		param := ""
		if m := sqlmapParamLine.FindStringSubmatch(stdout); m != nil {
			param = m[1]
		} else if m := commixParamLine.FindStringSubmatch(stdout); m != nil {
			param = m[1]
		}

		switch {
		case strings.Contains(lower, "does not seem to be injectable") || strings.Contains(lower, "not injectable") || strings.Contains(lower, "all tested parameters do not appear"):
			if reg != nil {
				f := newFinding(rec.Tool, "SQL Injection", endpoint, param, "tool reported target not injectable")
				reg.Register(withDisconfirm(f, rec.Tool))
			}
			return nil
		case rec.Outcome != models.OutcomeSuccessWithFindings:
			return nil
		case strings.Contains(lower, "is vulnerable") || strings.Contains(lower, "seems injectable") || strings.Contains(lower, "injection point"):
			marker := "potential_vulnerability"
			if strings.Contains(lower, "time-based") {
				marker = "time_delayed"
			}
			category := "sql injection"
			if rec.Tool == "commix" {
				category = "command injection"
			}
			f := newFinding(rec.Tool, category, endpoint, param, truncatedLine(stdout, "vulnerable", "injectable", "injection point"))
			if reg != nil {
				reg.Register(withIndicator(f, marker))
			}
		}
		return nil
	}
}

// truncatedLine returns the first line containing any of needles, or the
// first line of text if none match.
func truncatedLine(text string, needles ...string) string {
	for _, l := range lines(text) {
		lower := strings.ToLower(l)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return l
			}
		}
	}
	ls := lines(text)
	if len(ls) > 0 {
		return ls[0]
	}
	return ""
}

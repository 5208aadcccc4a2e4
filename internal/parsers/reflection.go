package parsers

import (
	"net/url"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// reflectionHitMarkers are substrings dalfox/xsstrike/xsser print next to a
// confirmed reflected-payload line.
var reflectionHitMarkers = []string{"[poc]", "[v]", "xss detected", "vulnerable parameter", "payload:"}

// Reflection parses dalfox/xsstrike/xsser output for confirmed reflected
// XSS hits, extracting the hit URL's query parameter when present.
func Reflection(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if rec.Outcome != models.OutcomeSuccessWithFindings {
		return nil
	}
	for _, l := range lines(stripANSI(rec.StdoutHead + rec.StdoutTail)) {
		lower := strings.ToLower(l)
		hit := false
		for _, marker := range reflectionHitMarkers {
			if strings.Contains(lower, marker) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		endpoint, param := extractHitURL(l)
		if endpoint != "" && param != "" {
			c.AddReflection(endpoint, param, rec.Tool)
		}
		f := newFinding(rec.Tool, "cross-site scripting", endpoint, param, l)
		if reg != nil {
			reg.Register(withIndicator(f, "confirmed_reflected"))
		}
	}
	return nil
}

// extractHitURL pulls the first http(s) URL out of a hit line and returns
// its normalized endpoint plus its first query parameter name, if any.
func extractHitURL(line string) (endpoint, param string) {
	idx := strings.Index(line, "http")
	if idx < 0 {
		return "", ""
	}
	candidate := line[idx:]
	if sp := strings.IndexAny(candidate, " \t\"'"); sp >= 0 {
		candidate = candidate[:sp]
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return "", ""
	}
	endpoint = cache.NormalizeEndpoint(u.Scheme + "://" + u.Host + u.Path)
	for name := range u.Query() {
		param = name
		break
	}
	return endpoint, param
}

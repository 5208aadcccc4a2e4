package parsers

import (
	"regexp"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/runner"
)

// whatwebToken matches one `Name[detail]` fingerprint token in whatweb's
// default single-line-per-target output.
var whatwebToken = regexp.MustCompile(`([A-Za-z0-9_\-\.]+)\[([^\]]*)\]`)

// WebFingerprint parses whatweb's plugin-hit line into tech hints. A
// WordPress hit is additionally written to the Profile's write-once CMS
// cell, since that is the one signal the WebDetect phase is specifically
// responsible for producing (spec.md §4.1/§4.6).
func WebFingerprint(profile *models.Profile) runner.ParseFunc {
	return func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
		if rec.Outcome != models.OutcomeSuccessWithFindings {
			return nil
		}
		stdout := rec.StdoutHead + rec.StdoutTail
		for _, m := range whatwebToken.FindAllStringSubmatch(stdout, -1) {
			name := m[1]
			c.AddTech(name, rec.Tool)
			if strings.EqualFold(name, "WordPress") && profile != nil {
				_ = profile.SetDetectedCMS("wordpress")
			}
		}
		return nil
	}
}

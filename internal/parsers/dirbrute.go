package parsers

import (
	"regexp"
	"strconv"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// gobusterHit matches gobuster dir's quiet-mode line: "/admin (Status: 200) [Size: 1234]".
var gobusterHit = regexp.MustCompile(`^(/\S*)\s+\(Status:\s*(\d+)\)`)

// dirsearchHit matches dirsearch's "200  1234B  /admin" line.
var dirsearchHit = regexp.MustCompile(`^(\d{3})\s+\S+\s+(/\S*)`)

// DirBrute parses gobuster/dirsearch output, recording every discovered
// non-404 path as a live endpoint rooted at the scanned URL.
func DirBrute(baseURL string) func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	return func(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
		if rec.Outcome != models.OutcomeSuccessWithFindings {
			return nil
		}
		for _, l := range lines(rec.StdoutHead + rec.StdoutTail) {
			if m := gobusterHit.FindStringSubmatch(l); m != nil {
				recordHit(c, rec.Tool, baseURL, m[1], m[2])
				continue
			}
			if m := dirsearchHit.FindStringSubmatch(l); m != nil {
				recordHit(c, rec.Tool, baseURL, m[2], m[1])
			}
		}
		return nil
	}
}

func recordHit(c *cache.Cache, tool, baseURL, path, status string) {
	code, err := strconv.Atoi(status)
	if err != nil || code == 404 {
		return
	}
	c.AddLiveEndpoint(baseURL+path, tool)
}

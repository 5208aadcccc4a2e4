package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// nmapPortLine matches nmap's standard port table row, e.g. "80/tcp open http".
var nmapPortLine = regexp.MustCompile(`^(\d+)/(tcp|udp)\s+(open|open\|filtered)\s+(\S+)`)

// PortScan parses nmap-quick's port table into cache.AddPort calls.
func PortScan(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	stdout := rec.StdoutHead + rec.StdoutTail
	for _, l := range lines(stdout) {
		m := nmapPortLine.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		port, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		c.AddPort(port, rec.Tool)
		c.AddTech("service:"+m[4], rec.Tool)
	}
	return nil
}

// nmapVulnMarker lines look like "|   VULNERABLE:" followed by a state line,
// or a bare "State: VULNERABLE" on scripts that report inline.
var nmapVulnMarker = regexp.MustCompile(`(?i)state:\s*vulnerable`)

// PortScanVuln parses nmap-vuln's NSE script output (nmap --script vuln),
// in addition to the standard port table, extracting one finding per
// VULNERABLE script block.
func PortScanVuln(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if err := PortScan(rec, c, reg); err != nil {
		return err
	}
	if rec.Outcome != models.OutcomeSuccessWithFindings {
		return nil
	}

	stdout := rec.StdoutHead + rec.StdoutTail
	var currentScript string
	for _, l := range lines(stdout) {
		if strings.HasPrefix(l, "|_") || strings.HasPrefix(l, "| ") {
			trimmed := strings.TrimLeft(l, "|_ ")
			if !strings.Contains(trimmed, ":") {
				currentScript = trimmed
			}
		}
		if nmapVulnMarker.MatchString(l) {
			title := currentScript
			if title == "" {
				title = "nmap vuln script finding"
			}
			if reg != nil {
				reg.Register(newFinding(rec.Tool, title, "network", "", l))
			}
		}
	}
	return nil
}

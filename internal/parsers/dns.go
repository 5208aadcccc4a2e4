package parsers

import (
	"regexp"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// hostnameToken matches a bare hostname token as printed by dig's +short or
// one-per-line subdomain enumerators (subfinder -silent, amass -passive).
var hostnameToken = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+\.?$`)

// DNS parses dig's ANY/A record dump (dns-enum, dns-minimal). It records no
// findings; it only records tech hints: dns:has-ns-records for NS record
// lines and dns:has-spf for an SPF TXT record.
func DNS(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if rec.Outcome != models.OutcomeSuccessWithFindings && rec.Outcome != models.OutcomeExecutedNoSignal {
		return nil
	}
	for _, l := range lines(rec.StdoutHead + rec.StdoutTail) {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "ns\t") || strings.Contains(lower, " ns ") {
			c.AddTech("dns:has-ns-records", rec.Tool)
		}
		if strings.Contains(lower, "txt") && strings.Contains(lower, "v=spf1") {
			c.AddTech("dns:has-spf", rec.Tool)
		}
	}
	return nil
}

// Subdomains parses one-hostname-per-line output (subfinder, amass) into
// cache.AddSubdomain candidates for later DNS verification.
func Subdomains(rec *models.ExecutionRecord, c *cache.Cache, reg *findings.Registry) error {
	if rec.Outcome != models.OutcomeSuccessWithFindings {
		return nil
	}
	for _, l := range lines(rec.StdoutHead + rec.StdoutTail) {
		candidate := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(l), "."))
		if hostnameToken.MatchString(candidate) {
			c.AddSubdomain(candidate, rec.Tool)
		}
	}
	return nil
}

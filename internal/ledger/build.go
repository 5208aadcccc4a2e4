package ledger

import (
	"fmt"

	"github.com/SpaceLeam/vapt-engine/internal/catalogue"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// Build implements build_ledger(profile) → Ledger from spec.md §4.3: a pure
// function of the Profile (the Discovery Cache never feeds this decision).
// Every tool in cat receives exactly one decision.
func Build(profile *models.Profile, cat *catalogue.Catalogue) *Ledger {
	l := New()
	for _, d := range cat.All() {
		l.add(decide(profile, d))
	}
	l.Build()
	return l
}

// decide evaluates one tool's static gate rule against the profile, per the
// gate-rule table in spec.md §4.3. Capabilities that can only be known
// after crawl (params, reflections, command_params, ssrf_params,
// live_endpoints) are declared as required/optional on the PlanEntry and
// re-checked by the runner at dispatch time — here they pass through as
// ALLOW, since the ledger predates the Discovery Cache.
func decide(p *models.Profile, d catalogue.Descriptor) models.ToolDecision {
	decision := models.ToolDecision{
		Tool:     d.Name,
		Decision: models.DecisionAllow,
		Priority: d.Priority,
		Timeout:  d.Timeout,
		Blocking: d.Blocking,
	}

	switch d.Category {
	case "dns":
		if d.Name == "dns-enum" {
			// Comprehensive A/AAAA/NS/MX/TXT tool: root domains only.
			if p.TargetType != models.TargetRootDomain {
				return deny(decision, fmt.Sprintf("DNS not applicable to %s", p.TargetType))
			}
		} else {
			// Minimal A/AAAA: root or subdomain, never IP.
			if p.TargetType == models.TargetIP {
				return deny(decision, "DNS not applicable to IP")
			}
		}
	case "subdomain":
		if p.TargetType != models.TargetRootDomain {
			return deny(decision, "subdomain enum only on root")
		}
	case "portscan":
		// always allowed
	case "fingerprint":
		if !p.WebTarget {
			return deny(decision, "not a web target")
		}
	case "tls":
		if !p.HTTPSCapable {
			return deny(decision, "no https service")
		}
	case "dirbrute", "webenum":
		if !p.WebTarget {
			return deny(decision, "not a web target")
		}
	case "template":
		if !p.WebTarget {
			return deny(decision, "not a web target")
		}
	case "cms":
		// detected_cms is an enrichment cell written during WebDetect/Crawl,
		// after the ledger is already frozen — the actual "wordpress
		// detected" gate is a runtime capability re-check (CapWordpress),
		// the same way crawl-derived params/reflections are, not a
		// ledger-build-time decision.
		if !p.WebTarget {
			return deny(decision, "not a web target")
		}
	case "injection":
		// has_params/has_command_params are crawl-time signals; the
		// ledger allows and the runner's prereq check enforces the
		// capability at dispatch time, after the Crawl phase.
		if !p.WebTarget {
			return deny(decision, "not a web target")
		}
	case "reflection", "ssrf":
		if !p.WebTarget {
			return deny(decision, "not a web target")
		}
	}

	return decision
}

func deny(d models.ToolDecision, reason string) models.ToolDecision {
	d.Decision = models.DecisionDeny
	d.Reason = reason
	return d
}

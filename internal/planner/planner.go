// Package planner implements the Execution Planner (spec.md §4.4): three
// independent executors, one per target type, each composing the shared
// tool catalogue into a different ordered plan. They deliberately share no
// execution logic — a subdomain plan must never be reachable by handing it
// an IP profile, and vice versa, per the scope-mismatch architecture
// violation in spec.md §7.
package planner

import (
	"sort"

	"github.com/SpaceLeam/vapt-engine/internal/catalogue"
	"github.com/SpaceLeam/vapt-engine/internal/ledger"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/scanerrors"
)

// Plan is the ordered list of entries the scheduler walks, phase by phase.
type Plan struct {
	Entries []models.PlanEntry
}

// ByPhase groups entries by phase, in the fixed phase order, each group
// already sorted by priority then insertion order.
func (p *Plan) ByPhase() []PhaseGroup {
	groups := map[models.Phase][]models.PlanEntry{}
	for _, e := range p.Entries {
		groups[e.Phase] = append(groups[e.Phase], e)
	}
	var out []PhaseGroup
	for _, ph := range models.Phases {
		entries := groups[ph]
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Priority < entries[j].Priority
		})
		out = append(out, PhaseGroup{Phase: ph, Entries: entries})
	}
	return out
}

// PhaseGroup is one phase's entries, already ordered.
type PhaseGroup struct {
	Phase   models.Phase
	Entries []models.PlanEntry
}

// Build implements plan(profile, ledger) → List[PlanEntry], dispatching to
// the executor matching profile.TargetType. Using the wrong executor for a
// profile's target type is an ArchitectureViolation.
func Build(profile *models.Profile, cat *catalogue.Catalogue, l *ledger.Ledger) (*Plan, error) {
	switch profile.TargetType {
	case models.TargetRootDomain:
		return planRootDomain(profile, cat, l)
	case models.TargetSubdomain:
		return planSubdomain(profile, cat, l)
	case models.TargetIP:
		return planIP(profile, cat, l)
	default:
		return nil, scanerrors.New(scanerrors.KindArchitectureViolation, "unknown target_type")
	}
}

// entryFor converts a catalogue descriptor + its ledger decision into a
// PlanEntry, only when the ledger allows the tool.
func entryFor(cat *catalogue.Catalogue, l *ledger.Ledger, name string) (models.PlanEntry, bool) {
	d, ok := cat.Get(name)
	if !ok {
		return models.PlanEntry{}, false
	}
	dec, err := l.Decision(name)
	if err != nil || !dec.Allows() {
		return models.PlanEntry{}, false
	}
	return models.PlanEntry{
		Tool:                 name,
		Phase:                d.Phase,
		CommandTemplate:      append([]string(nil), d.CommandTemplate...),
		RequiredCapabilities: append([]models.Capability(nil), d.RequiredCapabilities...),
		OptionalEnhancers:    append([]models.Capability(nil), d.OptionalEnhancers...),
		Priority:             dec.Priority,
		Timeout:              dec.Timeout,
	}, true
}

// commonWebTools is the tool list every executor appends once the target
// is confirmed a web target, shared as data (not execution logic) across
// the three independent executors.
var commonWebTools = []string{
	"whatweb", "testssl", "sslyze", "gobuster", "dirsearch", "wpscan",
	"nikto", "sqlmap", "commix", "dalfox", "xsstrike", "xsser", "ssrfmap",
	"nuclei",
}

// planRootDomain builds the plan for a ROOT_DOMAIN target: DNS
// consolidation (comprehensive tool), subdomain enumeration, then the
// shared web tool set.
func planRootDomain(profile *models.Profile, cat *catalogue.Catalogue, l *ledger.Ledger) (*Plan, error) {
	if profile.TargetType != models.TargetRootDomain {
		return nil, scanerrors.New(scanerrors.KindArchitectureViolation, "root-domain executor used for non-root profile")
	}
	var entries []models.PlanEntry
	for _, name := range append([]string{"dns-enum", "subfinder", "amass", "nmap-quick", "nmap-vuln"}, commonWebTools...) {
		if e, ok := entryFor(cat, l, name); ok {
			entries = append(entries, e)
		}
	}
	return &Plan{Entries: entries}, nil
}

// planSubdomain builds the plan for a SUBDOMAIN target: minimal DNS only
// (no subdomain enumeration, no comprehensive DNS tool — collapsing the
// ≥4× redundant per-record-type queries spec.md §4.4 calls out), then the
// shared web tool set.
func planSubdomain(profile *models.Profile, cat *catalogue.Catalogue, l *ledger.Ledger) (*Plan, error) {
	if profile.TargetType != models.TargetSubdomain {
		return nil, scanerrors.New(scanerrors.KindArchitectureViolation, "subdomain executor used for non-subdomain profile")
	}
	var entries []models.PlanEntry
	for _, name := range append([]string{"dns-minimal", "nmap-quick", "nmap-vuln"}, commonWebTools...) {
		if e, ok := entryFor(cat, l, name); ok {
			entries = append(entries, e)
		}
	}
	return &Plan{Entries: entries}, nil
}

// planIP builds the plan for an IP target: no DNS tools at all (the ledger
// already denies them by policy), port scan, then the shared web tool set
// if the IP happens to serve HTTP(S).
func planIP(profile *models.Profile, cat *catalogue.Catalogue, l *ledger.Ledger) (*Plan, error) {
	if profile.TargetType != models.TargetIP {
		return nil, scanerrors.New(scanerrors.KindArchitectureViolation, "IP executor used for non-IP profile")
	}
	var entries []models.PlanEntry
	for _, name := range append([]string{"nmap-quick", "nmap-vuln"}, commonWebTools...) {
		if e, ok := entryFor(cat, l, name); ok {
			entries = append(entries, e)
		}
	}
	return &Plan{Entries: entries}, nil
}

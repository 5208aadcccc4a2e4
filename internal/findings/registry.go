// Package findings implements the Findings Registry & Correlator (spec.md
// §4.7): dedup, correlation-status assignment, confidence scoring, and
// category mapping. Grounded in the teacher's mutex-guarded accumulation
// pattern (scanner/engine.go), generalized from payload-result structs
// into the closed Finding vocabulary.
package findings

import (
	"sort"
	"sync"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// Registry accumulates findings during a scan and finalizes them once, at
// report time.
type Registry struct {
	mu        sync.Mutex
	byKey     map[string]*models.Finding
	weights   models.ScoringWeights
	finalized bool
}

// New builds an empty Registry scored against weights.
func New(weights models.ScoringWeights) *Registry {
	return &Registry{byKey: map[string]*models.Finding{}, weights: weights}
}

// Register ingests one parser-produced finding, merging it into any
// existing finding sharing its primary key (category, endpoint, parameter,
// cwe): tool set accumulates, severity keeps the max, evidence merges up to
// the ceiling.
func (r *Registry) Register(f models.Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.FindingKey(f.Category, f.Endpoint, f.Parameter, f.CWE)
	existing, ok := r.byKey[key]
	if !ok {
		if f.ID == "" {
			f.ID = models.StableID(f.Category, f.Endpoint, f.Parameter, f.CWE)
		}
		if f.FirstSeen.IsZero() {
			f.FirstSeen = time.Now()
		}
		f.Evidence = models.TruncateEvidence(f.Evidence)
		cp := f
		cp.Tools = append([]string(nil), f.Tools...)
		r.byKey[key] = &cp
		return
	}

	existing.Evidence = models.MergeEvidence(existing.Evidence, f.Evidence)
	existing.Tools = mergeTools(existing.Tools, f.Tools)
	existing.DisconfirmedBy = mergeTools(existing.DisconfirmedBy, f.DisconfirmedBy)
	if f.Severity.Weight() > existing.Severity.Weight() {
		existing.Severity = f.Severity
	}
	if f.SuccessIndicator != "" {
		existing.SuccessIndicator = strongerIndicator(existing.SuccessIndicator, f.SuccessIndicator)
	}
	if existing.CWE == "" {
		existing.CWE = f.CWE
	}
	if existing.OWASPCategory == "" {
		existing.OWASPCategory = f.OWASPCategory
	}
}

func mergeTools(existing, incoming []string) []string {
	set := map[string]bool{}
	for _, t := range existing {
		set[t] = true
	}
	for _, t := range incoming {
		set[t] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// strongerIndicator prefers confirmed > time-delayed > potential/config
// markers, since a later parser's weaker signal must never downgrade an
// already-confirmed finding.
func strongerIndicator(existing, incoming models.SuccessIndicator) models.SuccessIndicator {
	rank := func(s models.SuccessIndicator) int {
		switch s {
		case models.SuccessConfirmedExecuted, models.SuccessConfirmedReflected:
			return 3
		case models.SuccessTimeDelayed:
			return 2
		case models.SuccessConfigIssue:
			return 1
		default:
			return 0
		}
	}
	if rank(incoming) > rank(existing) {
		return incoming
	}
	return existing
}

// Finalize performs the secondary template-scanner dedup, correlation
// status assignment, and confidence scoring, returning the finished
// findings sorted for report display. Idempotent: calling it twice returns
// the same result without re-scoring.
func (r *Registry) Finalize() []models.Finding {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.finalized {
		r.secondaryDedup()
		for _, f := range r.byKey {
			r.assignCorrelation(f)
			f.Confidence = Score(*f, r.weights)
			f.ConfidenceLabel = models.ConfidenceLabelFor(f.Confidence)
		}
		r.finalized = true
	}

	out := make([]models.Finding, 0, len(r.byKey))
	for _, f := range r.byKey {
		out = append(out, *f)
	}
	models.SortFindings(out)
	return out
}

// secondaryDedup collapses findings sharing the narrower (category,
// endpoint) key — the template-scanner case where the same vulnerability
// is reported under many template IDs — preserving the highest-severity
// representative, per spec.md §4.7.1 and §9's nuclei-dedup resolution.
func (r *Registry) secondaryDedup() {
	winnerKey := map[string]string{}
	for key, f := range r.byKey {
		sec := models.SecondaryKey(f.Category, f.Endpoint)
		wk, ok := winnerKey[sec]
		if !ok || f.Severity.Weight() > r.byKey[wk].Severity.Weight() {
			winnerKey[sec] = key
		}
	}

	for key, f := range r.byKey {
		sec := models.SecondaryKey(f.Category, f.Endpoint)
		wk := winnerKey[sec]
		if key == wk {
			continue
		}
		winner := r.byKey[wk]
		winner.Tools = mergeTools(winner.Tools, f.Tools)
		winner.Evidence = models.MergeEvidence(winner.Evidence, f.Evidence)
		delete(r.byKey, key)
	}
}

// assignCorrelation implements the per-finding status rules in spec.md
// §4.7.2. A disconfirming tool only wins over an affirming one when the
// affirmation carries no payload-success marker — a confirmed marker always
// outranks a plain disconfirmation.
func (r *Registry) assignCorrelation(f *models.Finding) {
	f.CorroborationCount = len(f.Tools)
	affirming := len(f.Tools) - len(f.DisconfirmedBy)
	switch {
	case len(f.DisconfirmedBy) > 0 && affirming > 0 && !hasPayloadSuccessMarker(f.SuccessIndicator):
		f.Correlation = models.CorrelationFalsePositive
	case hasPayloadSuccessMarker(f.SuccessIndicator):
		f.Correlation = models.CorrelationConfirmed
	case len(f.Tools) >= 2:
		f.Correlation = models.CorrelationCorroborated
	default:
		f.Correlation = models.CorrelationSingleTool
	}
}

func hasPayloadSuccessMarker(s models.SuccessIndicator) bool {
	return s == models.SuccessConfirmedReflected || s == models.SuccessConfirmedExecuted || s == models.SuccessTimeDelayed
}

package findings

import "github.com/SpaceLeam/vapt-engine/internal/models"

// sourceStrength ranks a finding's discovery provenance, highest first, per
// spec.md §4.7.3 (crawled > form > URL-param > heuristic). Findings don't
// carry provenance directly; inferSourceKind derives it from the finding
// alone (no parameter: crawled; any parameter: URL-param), so the form and
// heuristic kinds are never selected.
type sourceKind int

const (
	sourceCrawled sourceKind = iota
	sourceForm
	sourceURLParam
	sourceHeuristic
)

// Score computes a finding's confidence in [0, 1] as the weighted sum
// spec.md §4.7.3 fixes: tool reliability, corroboration bonus, payload
// success weight, and source strength, capped at 1.0.
func Score(f models.Finding, w models.ScoringWeights) float64 {
	score := toolReliability(f.Tools, w) + corroborationBonus(len(f.Tools), w) + payloadWeight(f.SuccessIndicator, w) + sourceWeight(f, w)
	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

// toolReliability uses the single most reliable contributing tool's base
// weight, not a sum — multiple tools are already rewarded by the
// corroboration bonus below.
func toolReliability(tools []string, w models.ScoringWeights) float64 {
	best := 0.0
	for _, t := range tools {
		if r, ok := w.ToolReliability[t]; ok && r > best {
			best = r
		}
	}
	if best == 0 {
		best = 0.3
	}
	return best * 0.4
}

func corroborationBonus(toolCount int, w models.ScoringWeights) float64 {
	switch {
	case toolCount >= 3:
		return w.CorroborationThreePlus
	case toolCount == 2:
		return w.CorroborationTwo
	default:
		return 0
	}
}

func payloadWeight(indicator models.SuccessIndicator, w models.ScoringWeights) float64 {
	switch indicator {
	case models.SuccessConfirmedExecuted, models.SuccessConfirmedReflected, models.SuccessTimeDelayed:
		return w.PayloadConfirmed * 0.3
	case models.SuccessConfigIssue:
		return w.PayloadConfigIssue * 0.3
	case models.SuccessPotential:
		return w.PayloadPotential * 0.3
	default:
		return 0
	}
}

func sourceWeight(f models.Finding, w models.ScoringWeights) float64 {
	kind := inferSourceKind(f)
	switch kind {
	case sourceCrawled:
		return w.SourceCrawled * 0.1
	case sourceForm:
		return w.SourceForm * 0.1
	case sourceURLParam:
		return w.SourceURLParam * 0.1
	default:
		return w.SourceHeuristic * 0.1
	}
}

// inferSourceKind falls back to the parameter-less "crawled" source for
// findings with no parameter (port/TLS/CMS findings), since only
// parametric findings have a URL-param-vs-form-vs-heuristic distinction.
func inferSourceKind(f models.Finding) sourceKind {
	if f.Parameter == "" {
		return sourceCrawled
	}
	return sourceURLParam
}

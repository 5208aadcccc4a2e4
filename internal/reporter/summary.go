package reporter

import "github.com/SpaceLeam/vapt-engine/internal/models"

// payloadTools are the catalogue categories whose tool runs count toward
// payload_attempts — the exploitation/reflection/ssrf families that send
// test input, as opposed to passive enumeration/fingerprinting.
var payloadTools = map[string]bool{
	"sqlmap": true, "commix": true, "dalfox": true, "xsstrike": true,
	"xsser": true, "ssrfmap": true,
}

// Summarize builds FindingsSummary from the finalized finding set.
func Summarize(found []models.Finding) models.FindingsSummary {
	s := models.FindingsSummary{
		BySeverity: map[models.Severity]int{},
		ByCategory: map[models.Category]int{},
	}
	for _, f := range found {
		s.BySeverity[f.Severity]++
		s.ByCategory[f.Category]++
		switch f.Correlation {
		case models.CorrelationCorroborated:
			s.Corroborated++
		case models.CorrelationConfirmed:
			s.Confirmed++
		case models.CorrelationSingleTool:
			s.SingleTool++
		case models.CorrelationFalsePositive:
			s.FalsePositive++
		}
	}
	return s
}

// SummarizePayloads counts how many payload-class tools ran and how many
// produced a confirmed payload-success marker, from the execution records.
func SummarizePayloads(records map[string]models.ExecutionRecord, found []models.Finding) models.PayloadAttempts {
	attempts := models.PayloadAttempts{}
	for tool, rec := range records {
		if !payloadTools[tool] {
			continue
		}
		if rec.Outcome == models.OutcomeSuccessWithFindings || rec.Outcome == models.OutcomeSuccessNoFindings || rec.Outcome == models.OutcomeExecutedNoSignal {
			attempts.Count++
		}
	}
	for _, f := range found {
		switch f.SuccessIndicator {
		case models.SuccessConfirmedExecuted, models.SuccessConfirmedReflected, models.SuccessTimeDelayed:
			attempts.SuccessCount++
		}
	}
	return attempts
}

// Reconcile fills in a synthetic ExecutionRecord for every ledger tool
// absent from records, so the persisted report never silently omits a
// tool per spec.md §4.8 and §8's "exactly one execution record per ledger
// tool" invariant. A denied tool gets BLOCKED/policy_denied carrying the
// ledger's own deny reason; an allowed tool the planner never requested for
// this target type (no executor lists it) gets SKIPPED/prereq_missing,
// mirroring the same two bins printToolBins already reconstructs for the
// console summary. Returns a new map; records is never mutated.
func Reconcile(ledgerSnapshot map[string]models.ToolDecision, records map[string]models.ExecutionRecord) map[string]models.ExecutionRecord {
	out := make(map[string]models.ExecutionRecord, len(ledgerSnapshot))
	for tool, rec := range records {
		out[tool] = rec
	}
	for tool, decision := range ledgerSnapshot {
		if _, ok := out[tool]; ok {
			continue
		}
		if !decision.Allows() {
			out[tool] = models.ExecutionRecord{
				Tool:          tool,
				Outcome:       models.OutcomeBlocked,
				FailureReason: models.ReasonPolicyDenied,
			}
			continue
		}
		out[tool] = models.ExecutionRecord{
			Tool:          tool,
			Outcome:       models.OutcomeSkipped,
			FailureReason: models.ReasonPrereqMissing,
		}
	}
	return out
}

// ExitCode maps the worst finding severity to spec.md §6's CI-aware exit
// code. An engine-level failure (scanErr != nil) always wins with code 5.
func ExitCode(found []models.Finding, scanErr error) int {
	if scanErr != nil {
		return 5
	}
	worst := 0
	for _, f := range found {
		if w := f.Severity.Weight(); w > worst {
			worst = w
		}
	}
	switch {
	case worst == 0:
		return 0
	case worst <= 2: // LOW or INFO
		return 1
	case worst == 3: // MEDIUM
		return 2
	case worst == 4: // HIGH
		return 3
	default: // CRITICAL
		return 4
	}
}

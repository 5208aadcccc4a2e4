package reporter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestSummarizeCountsBySeverityAndCorrelation(t *testing.T) {
	found := []models.Finding{
		{Severity: models.SeverityCritical, Category: models.CategoryInjection, Correlation: models.CorrelationConfirmed},
		{Severity: models.SeverityHigh, Category: models.CategorySSRF, Correlation: models.CorrelationCorroborated},
		{Severity: models.SeverityHigh, Category: models.CategorySSRF, Correlation: models.CorrelationSingleTool},
		{Severity: models.SeverityLow, Category: models.CategoryMisconfiguration, Correlation: models.CorrelationFalsePositive},
	}

	s := Summarize(found)
	assert.Equal(t, 1, s.BySeverity[models.SeverityCritical])
	assert.Equal(t, 2, s.BySeverity[models.SeverityHigh])
	assert.Equal(t, 2, s.ByCategory[models.CategorySSRF])
	assert.Equal(t, 1, s.Confirmed)
	assert.Equal(t, 1, s.Corroborated)
	assert.Equal(t, 1, s.SingleTool)
	assert.Equal(t, 1, s.FalsePositive)
}

func TestSummarizePayloadsCountsOnlyPayloadToolFamilies(t *testing.T) {
	records := map[string]models.ExecutionRecord{
		"sqlmap":  {Outcome: models.OutcomeSuccessWithFindings},
		"nikto":   {Outcome: models.OutcomeSuccessWithFindings},
		"dalfox":  {Outcome: models.OutcomeExecutedNoSignal},
		"nuclei":  {Outcome: models.OutcomeSuccessWithFindings},
		"ssrfmap": {Outcome: models.OutcomeBlocked},
	}
	found := []models.Finding{
		{SuccessIndicator: models.SuccessConfirmedExecuted},
		{SuccessIndicator: models.SuccessTimeDelayed},
		{SuccessIndicator: models.SuccessPotential},
	}

	attempts := SummarizePayloads(records, found)
	assert.Equal(t, 2, attempts.Count, "only sqlmap and dalfox are payload-tool executions that ran")
	assert.Equal(t, 2, attempts.SuccessCount, "only confirmed/time-delayed markers count as successes")
}

func TestExitCodeMapsWorstSeverityToSpecRange(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil, nil))
	assert.Equal(t, 1, ExitCode([]models.Finding{{Severity: models.SeverityInfo}}, nil))
	assert.Equal(t, 1, ExitCode([]models.Finding{{Severity: models.SeverityLow}}, nil))
	assert.Equal(t, 2, ExitCode([]models.Finding{{Severity: models.SeverityMedium}}, nil))
	assert.Equal(t, 3, ExitCode([]models.Finding{{Severity: models.SeverityHigh}}, nil))
	assert.Equal(t, 4, ExitCode([]models.Finding{{Severity: models.SeverityCritical}}, nil))
}

func TestExitCodeEngineFailureAlwaysWins(t *testing.T) {
	found := []models.Finding{{Severity: models.SeverityCritical}}
	assert.Equal(t, 5, ExitCode(found, errors.New("target unreachable")))
}

func TestReconcileSynthesizesRecordsForEveryAbsentLedgerTool(t *testing.T) {
	ledgerSnapshot := map[string]models.ToolDecision{
		"nikto":      {Tool: "nikto", Decision: models.DecisionAllow},
		"dns-enum":   {Tool: "dns-enum", Decision: models.DecisionDeny, Reason: "DNS not applicable to IP"},
		"subfinder":  {Tool: "subfinder", Decision: models.DecisionDeny, Reason: "subdomain enum only on root"},
		"nmap-quick": {Tool: "nmap-quick", Decision: models.DecisionAllow},
	}
	records := map[string]models.ExecutionRecord{
		"nikto": {Tool: "nikto", Outcome: models.OutcomeSuccessWithFindings},
	}

	reconciled := Reconcile(ledgerSnapshot, records)

	assert.Len(t, reconciled, 4, "every ledger tool must have exactly one execution record")
	assert.Equal(t, models.OutcomeSuccessWithFindings, reconciled["nikto"].Outcome, "an already-executed tool's record must be preserved")

	assert.Equal(t, models.OutcomeBlocked, reconciled["dns-enum"].Outcome)
	assert.Equal(t, models.ReasonPolicyDenied, reconciled["dns-enum"].FailureReason)
	assert.Equal(t, models.OutcomeBlocked, reconciled["subfinder"].Outcome)

	assert.Equal(t, models.OutcomeSkipped, reconciled["nmap-quick"].Outcome, "allowed but never dispatched must still get a record")
	assert.Equal(t, models.ReasonPrereqMissing, reconciled["nmap-quick"].FailureReason)
}

func TestReconcileDoesNotMutateTheInputMap(t *testing.T) {
	ledgerSnapshot := map[string]models.ToolDecision{
		"nikto": {Tool: "nikto", Decision: models.DecisionDeny, Reason: "not a web target"},
	}
	records := map[string]models.ExecutionRecord{}

	Reconcile(ledgerSnapshot, records)
	assert.Empty(t, records, "Reconcile must return a new map rather than writing into the caller's")
}

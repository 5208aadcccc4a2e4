package models

// Outcome is the closed vocabulary of terminal states a tool run can reach.
type Outcome string

const (
	OutcomeSuccessWithFindings Outcome = "SUCCESS_WITH_FINDINGS"
	OutcomeSuccessNoFindings   Outcome = "SUCCESS_NO_FINDINGS"
	OutcomeExecutedNoSignal    Outcome = "EXECUTED_NO_SIGNAL"
	OutcomeTimeout             Outcome = "TIMEOUT"
	OutcomeBlocked             Outcome = "BLOCKED"
	OutcomeSkipped             Outcome = "SKIPPED"
	OutcomeExecutionError      Outcome = "EXECUTION_ERROR"
)

// FailureReason is the closed vocabulary paired with non-success outcomes.
type FailureReason string

const (
	ReasonNone              FailureReason = ""
	ReasonToolNotInstalled  FailureReason = "tool_not_installed"
	ReasonPermissionDenied  FailureReason = "permission_denied"
	ReasonTargetUnreachable FailureReason = "target_unreachable"
	ReasonTimeout           FailureReason = "timeout"
	ReasonArgumentError     FailureReason = "argument_error"
	ReasonUnknownError      FailureReason = "unknown_error"
	ReasonPrereqMissing     FailureReason = "prereq_missing"
	ReasonBudgetExhausted   FailureReason = "budget_exhausted"
	ReasonPolicyDenied      FailureReason = "policy_denied"
)

// Decision is the ledger's per-tool allow/deny verdict.
type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionDeny  Decision = "DENY"
)

// Severity is the closed severity vocabulary for findings.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

var severityWeight = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// Weight returns an ordinal used to sort findings/severities, highest first.
func (s Severity) Weight() int { return severityWeight[s] }

// Category is the closed vulnerability-category taxonomy from spec.md §4.7.4.
type Category string

const (
	CategoryInjection            Category = "injection"
	CategoryBrokenAccessControl  Category = "broken-access-control"
	CategoryCryptographicFailure Category = "cryptographic-failure"
	CategoryMisconfiguration     Category = "misconfiguration"
	CategoryVulnerableComponent  Category = "vulnerable-component"
	CategoryAuthFailure          Category = "auth-failure"
	CategorySSRF                 Category = "SSRF"
	CategoryLoggingFailure       Category = "logging-failure"
	CategoryIntegrityFailure     Category = "integrity-failure"
	CategoryInsecureDesign       Category = "insecure-design"
)

// CorrelationStatus is assigned to each finding during Registry.Finalize.
type CorrelationStatus string

const (
	CorrelationSingleTool    CorrelationStatus = "SINGLE_TOOL"
	CorrelationCorroborated  CorrelationStatus = "CORROBORATED"
	CorrelationConfirmed     CorrelationStatus = "CONFIRMED"
	CorrelationFalsePositive CorrelationStatus = "FALSE_POSITIVE"
)

// ConfidenceLabel buckets a finding's numeric confidence score.
type ConfidenceLabel string

const (
	ConfidenceLow    ConfidenceLabel = "LOW"
	ConfidenceMedium ConfidenceLabel = "MEDIUM"
	ConfidenceHigh   ConfidenceLabel = "HIGH"
)

// ConfidenceLabelFor maps a [0,1] confidence score to its label per spec.md §4.7.3.
func ConfidenceLabelFor(score float64) ConfidenceLabel {
	switch {
	case score < 0.34:
		return ConfidenceLow
	case score < 0.67:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// SuccessIndicator is the fixed vocabulary of payload-success markers a
// parser may attach to evidence. Per spec.md §9's open question, any marker
// outside this set is normalized to SuccessPotential.
type SuccessIndicator string

const (
	SuccessConfirmedReflected SuccessIndicator = "confirmed_reflected"
	SuccessConfirmedExecuted  SuccessIndicator = "confirmed_executed"
	SuccessTimeDelayed        SuccessIndicator = "time_delayed"
	SuccessPotential          SuccessIndicator = "potential_vulnerability"
	SuccessConfigIssue        SuccessIndicator = "configuration_issue"
)

// NormalizeSuccessIndicator maps an arbitrary marker string (as produced by
// a parser) onto the closed SuccessIndicator vocabulary, defaulting unknown
// markers to the lowest-confidence bucket per spec.md §9.
func NormalizeSuccessIndicator(marker string) SuccessIndicator {
	switch SuccessIndicator(marker) {
	case SuccessConfirmedReflected, SuccessConfirmedExecuted, SuccessTimeDelayed, SuccessConfigIssue:
		return SuccessIndicator(marker)
	default:
		return SuccessPotential
	}
}

// EdgeProvenance is how an endpoint→parameter edge was discovered.
type EdgeProvenance string

const (
	ProvenanceURLQuery   EdgeProvenance = "URL_QUERY"
	ProvenanceForm       EdgeProvenance = "FORM"
	ProvenanceJSDetected EdgeProvenance = "JS_DETECTED"
	ProvenanceAPISchema  EdgeProvenance = "API_SCHEMA"
	ProvenanceHistoric   EdgeProvenance = "HISTORIC"
)

// Phase is one of the nine fixed execution phases.
type Phase string

const (
	PhaseDNS          Phase = "DNS"
	PhaseSubdomains   Phase = "Subdomains"
	PhaseNetwork      Phase = "Network"
	PhaseWebDetect    Phase = "WebDetect"
	PhaseTLS          Phase = "TLS"
	PhaseCrawl        Phase = "Crawl"
	PhaseWebEnum      Phase = "WebEnum"
	PhaseExploitation Phase = "Exploitation"
	PhaseTemplates    Phase = "Templates"
)

// Phases lists the fixed phase order the planner and scheduler honor.
var Phases = []Phase{
	PhaseDNS, PhaseSubdomains, PhaseNetwork, PhaseWebDetect,
	PhaseTLS, PhaseCrawl, PhaseWebEnum, PhaseExploitation, PhaseTemplates,
}

// Capability is a declared prerequisite a plan entry may require.
type Capability string

const (
	CapWebTarget     Capability = "web_target"
	CapHTTPS         Capability = "https"
	CapLiveEndpoints Capability = "live_endpoints"
	CapReflections   Capability = "reflections"
	CapParams        Capability = "params"
	CapCommandParams Capability = "command_params"
	CapSSRFParams    Capability = "ssrf_params"
	CapWordpress     Capability = "wordpress"
	CapTLSService    Capability = "tls_service"
)

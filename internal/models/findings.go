package models

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// evidenceCeiling is the maximum number of bytes kept in a Finding's Evidence
// field, per spec.md §3's "evidence (≤500 chars)".
const evidenceCeiling = 500

// Finding is the frozen record produced once the Findings Registry
// deduplicates and scores a raw tool report. Fields set by Registry.Finalize
// (Confidence, Correlation, CorroborationCount) are zero-valued until
// finalize runs.
type Finding struct {
	ID                 string            `json:"id"`
	Category           Category          `json:"category"`
	Severity           Severity          `json:"severity"`
	Endpoint           string            `json:"endpoint,omitempty"`
	Parameter          string            `json:"parameter,omitempty"`
	Evidence           string            `json:"evidence,omitempty"`
	Tools              []string          `json:"tools"`
	OWASPCategory      string            `json:"owasp_category,omitempty"`
	CWE                string            `json:"cwe,omitempty"`
	Confidence         float64           `json:"confidence"`
	ConfidenceLabel    ConfidenceLabel   `json:"confidence_label"`
	CorroborationCount int               `json:"corroboration_count"`
	Correlation        CorrelationStatus `json:"correlation"`
	SuccessIndicator   SuccessIndicator  `json:"success_indicator,omitempty"`
	DisconfirmedBy     []string          `json:"disconfirmed_by,omitempty"`
	FirstSeen          time.Time         `json:"first_seen"`
}

// FindingKey computes the stable primary dedup key from spec.md §3:
// (category, endpoint, parameter, cwe).
func FindingKey(category Category, endpoint, parameter, cwe string) string {
	return string(category) + "|" + endpoint + "|" + parameter + "|" + cwe
}

// SecondaryKey is the narrower post-dedup key for template-driven scanners
// (spec.md §9's open question: nuclei dedups on (type, location) as a
// *secondary* pass after the primary key-based dedup).
func SecondaryKey(category Category, endpoint string) string {
	return string(category) + "|" + endpoint
}

// StableID derives Finding.ID as a stable hash of the primary dedup key,
// per spec.md §3 ("id (stable hash of (category, endpoint, parameter, cwe))").
func StableID(category Category, endpoint, parameter, cwe string) string {
	sum := sha256.Sum256([]byte(FindingKey(category, endpoint, parameter, cwe)))
	return hex.EncodeToString(sum[:])[:16]
}

// TruncateEvidence enforces the evidence ceiling, appending a truncation
// marker when content is cut.
func TruncateEvidence(s string) string {
	if len(s) <= evidenceCeiling {
		return s
	}
	return s[:evidenceCeiling] + "...[truncated]"
}

// MergeEvidence concatenates two evidence strings up to the ceiling,
// avoiding duplication when the new text is already contained in the old.
func MergeEvidence(existing, incoming string) string {
	if incoming == "" {
		return existing
	}
	if existing == "" {
		return TruncateEvidence(incoming)
	}
	if strings.Contains(existing, incoming) {
		return existing
	}
	return TruncateEvidence(existing + " | " + incoming)
}

// SortFindings orders findings by severity (descending) then endpoint, for
// stable, deterministic report output.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		wi, wj := findings[i].Severity.Weight(), findings[j].Severity.Weight()
		if wi != wj {
			return wi > wj
		}
		return findings[i].Endpoint < findings[j].Endpoint
	})
}

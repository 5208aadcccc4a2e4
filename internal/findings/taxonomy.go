package findings

import (
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// Entry is one row of the static category-mapping table: the metadata the
// teacher's per-vulnerability scanner files (sqli.go, nosql.go, jwt.go,
// otp.go, callback.go, price.go, amount.go, idempotency.go, idor.go) each
// hard-coded per exploit type, repurposed here as a keyword→category table
// for classifying *passive* evidence found in an external tool's stdout —
// never by sending the payload ourselves.
type Entry struct {
	Category      models.Category
	CWE           string
	OWASPCategory string
	BaseSeverity  models.Severity
	Remediation   string
}

// table maps a lower-cased keyword found in tool output or a template ID to
// the Entry it implies. Classify returns the first row, in table order,
// whose keyword occurs in the text, so a specific keyword is listed before
// any shorter keyword it contains ("nosql injection" before "sql injection").
var table = []struct {
	keyword string
	entry   Entry
}{
	{"nosql injection", Entry{models.CategoryInjection, "CWE-943", "A03:2021", models.SeverityHigh,
		"Validate and type-check query operators before passing user input into a NoSQL driver."}},
	{"sql injection", Entry{models.CategoryInjection, "CWE-89", "A03:2021", models.SeverityCritical,
		"Use parameterized queries or an ORM; never interpolate user input into SQL text."}},
	{"sqli", Entry{models.CategoryInjection, "CWE-89", "A03:2021", models.SeverityCritical,
		"Use parameterized queries or an ORM; never interpolate user input into SQL text."}},
	{"regex dos", Entry{models.CategoryInjection, "CWE-1333", "A03:2021", models.SeverityMedium,
		"Bound regex input length and avoid user-controlled regex patterns."}},
	{"command injection", Entry{models.CategoryInjection, "CWE-78", "A03:2021", models.SeverityCritical,
		"Avoid shelling out with user input; use argv-array exec with no shell interpretation."}},
	{"os command", Entry{models.CategoryInjection, "CWE-78", "A03:2021", models.SeverityCritical,
		"Avoid shelling out with user input; use argv-array exec with no shell interpretation."}},
	{"cross-site scripting", Entry{models.CategoryInjection, "CWE-79", "A03:2021", models.SeverityHigh,
		"Context-aware output encoding; a Content-Security-Policy as defense in depth."}},
	{"xss", Entry{models.CategoryInjection, "CWE-79", "A03:2021", models.SeverityHigh,
		"Context-aware output encoding; a Content-Security-Policy as defense in depth."}},
	{"server-side request forgery", Entry{models.CategorySSRF, "CWE-918", "A10:2021", models.SeverityHigh,
		"Allowlist outbound destinations; resolve and validate the target before the request leaves the server."}},
	{"ssrf", Entry{models.CategorySSRF, "CWE-918", "A10:2021", models.SeverityHigh,
		"Allowlist outbound destinations; resolve and validate the target before the request leaves the server."}},
	{"idor", Entry{models.CategoryBrokenAccessControl, "CWE-639", "A01:2021", models.SeverityHigh,
		"Authorize every object access against the requesting identity, not just authenticate the request."}},
	{"broken access control", Entry{models.CategoryBrokenAccessControl, "CWE-284", "A01:2021", models.SeverityHigh,
		"Re-derive authorization server-side for every request; never trust a client-supplied object reference."}},
	{"path traversal", Entry{models.CategoryBrokenAccessControl, "CWE-22", "A01:2021", models.SeverityHigh,
		"Resolve and validate paths against an allowlisted base directory before any filesystem access."}},
	{"directory traversal", Entry{models.CategoryBrokenAccessControl, "CWE-22", "A01:2021", models.SeverityHigh,
		"Resolve and validate paths against an allowlisted base directory before any filesystem access."}},
	{"algorithm confusion", Entry{models.CategoryAuthFailure, "CWE-347", "A07:2021", models.SeverityHigh,
		"Pin the expected signing algorithm server-side and reject mismatches."}},
	{"jwt", Entry{models.CategoryAuthFailure, "CWE-347", "A07:2021", models.SeverityHigh,
		"Pin the expected signing algorithm server-side; reject alg=none and verify expiry on every request."}},
	{"authentication bypass", Entry{models.CategoryAuthFailure, "CWE-287", "A07:2021", models.SeverityCritical,
		"Require re-authentication for privileged operations; never trust client-asserted identity."}},
	{"replay", Entry{models.CategoryAuthFailure, "CWE-294", "A07:2021", models.SeverityMedium,
		"Bind requests to a short-lived nonce or timestamp window and reject repeats server-side."}},
	{"brute force", Entry{models.CategoryAuthFailure, "CWE-307", "A07:2021", models.SeverityMedium,
		"Apply a server-side rate limit keyed by account/IP to brute-forceable endpoints."}},
	{"rate limit", Entry{models.CategoryMisconfiguration, "CWE-307", "A07:2021", models.SeverityMedium,
		"Apply a server-side rate limit keyed by account/IP to brute-forceable endpoints."}},
	{"weak cipher", Entry{models.CategoryCryptographicFailure, "CWE-327", "A02:2021", models.SeverityMedium,
		"Disable legacy protocol versions and cipher suites; require TLS 1.2+ with AEAD ciphers."}},
	{"certificate", Entry{models.CategoryCryptographicFailure, "CWE-295", "A02:2021", models.SeverityMedium,
		"Renew and correctly chain the certificate; validate hostnames on every client."}},
	{"ssl", Entry{models.CategoryCryptographicFailure, "CWE-326", "A02:2021", models.SeverityMedium,
		"Disable legacy protocol versions and cipher suites; require TLS 1.2+ with AEAD ciphers."}},
	{"default credential", Entry{models.CategoryMisconfiguration, "CWE-1392", "A05:2021", models.SeverityHigh,
		"Force a credential change on first boot; never ship a reachable default account."}},
	{"directory listing", Entry{models.CategoryMisconfiguration, "CWE-548", "A05:2021", models.SeverityLow,
		"Disable autoindexing on the web server for any directory reachable by a client."}},
	{"exposed", Entry{models.CategoryMisconfiguration, "CWE-200", "A05:2021", models.SeverityMedium,
		"Remove or access-restrict the exposed file/endpoint; it should not be reachable unauthenticated."}},
	{"vulnerable plugin", Entry{models.CategoryVulnerableComponent, "CWE-1104", "A06:2021", models.SeverityHigh,
		"Upgrade or remove the flagged plugin; subscribe to its advisory feed."}},
	{"outdated", Entry{models.CategoryVulnerableComponent, "CWE-1104", "A06:2021", models.SeverityMedium,
		"Upgrade the flagged component to a version without the reported advisory."}},
	{"price manipulation", Entry{models.CategoryInsecureDesign, "CWE-840", "A04:2021", models.SeverityHigh,
		"Recompute price/amount server-side from trusted catalog data; never trust a client-supplied total."}},
	{"idempotency", Entry{models.CategoryInsecureDesign, "CWE-841", "A04:2021", models.SeverityMedium,
		"Enforce idempotency keys server-side with an expiry and a strict request-body match."}},
	{"amount validation", Entry{models.CategoryInsecureDesign, "CWE-20", "A04:2021", models.SeverityMedium,
		"Validate numeric amount fields server-side: range, sign, precision, and encoding."}},
	{"logging", Entry{models.CategoryLoggingFailure, "CWE-778", "A09:2021", models.SeverityLow,
		"Log authentication and authorization decisions with enough context to support incident response."}},
	{"integrity", Entry{models.CategoryIntegrityFailure, "CWE-345", "A08:2021", models.SeverityMedium,
		"Verify signatures/checksums on any data or code accepted from an untrusted source."}},
}

// defaultEntry is returned when no keyword matches — misconfiguration is the
// closest fit for an unclassified signal (most unmatched tool output is a
// config/exposure finding, not a code-level vulnerability).
var defaultEntry = Entry{models.CategoryMisconfiguration, "", "A05:2021", models.SeverityLow, ""}

// Classify maps free text (a tool's finding title, template ID, or message)
// onto the closed category vocabulary by keyword match, never by free-text
// heuristic scoring, per spec.md §4.7's mapping contract.
func Classify(text string) Entry {
	lower := strings.ToLower(text)
	for _, row := range table {
		if strings.Contains(lower, row.keyword) {
			return row.entry
		}
	}
	return defaultEntry
}

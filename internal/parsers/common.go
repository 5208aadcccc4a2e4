// Package parsers implements one ParseFunc (spec.md §4.5/§4.7) per tool
// family: each reads a completed ExecutionRecord's stdout, writes discovered
// signals into the Discovery Cache, and registers any findings into the
// Findings Registry. Parsers never send a payload themselves — they only
// read what the catalogue tool already produced.
package parsers

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// newFinding builds a models.Finding from free text classified against the
// category taxonomy, attributing it to tool and endpoint/parameter.
func newFinding(tool, text, endpoint, parameter, evidence string) models.Finding {
	entry := findings.Classify(text)
	return models.Finding{
		Category:      entry.Category,
		Severity:      entry.BaseSeverity,
		Endpoint:      endpoint,
		Parameter:     parameter,
		Evidence:      models.TruncateEvidence(evidence),
		Tools:         []string{tool},
		OWASPCategory: entry.OWASPCategory,
		CWE:           entry.CWE,
	}
}

// withIndicator attaches a payload-success marker to a finding, normalizing
// it through the closed SuccessIndicator vocabulary.
func withIndicator(f models.Finding, marker string) models.Finding {
	f.SuccessIndicator = models.NormalizeSuccessIndicator(marker)
	return f
}

// withDisconfirm marks a finding as explicitly disconfirmed by tool — used
// when a tool's own output states a candidate was tested and rejected.
func withDisconfirm(f models.Finding, tool string) models.Finding {
	f.DisconfirmedBy = append(f.DisconfirmedBy, tool)
	return f
}

// lines splits stdout into non-empty trimmed lines.
func lines(stdout string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		l := strings.TrimSpace(scanner.Text())
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

// stripANSI removes color escape codes many CLI tools emit even when
// redirected to a pipe.
func stripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

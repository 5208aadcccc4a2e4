// Package reporter implements the Report Emitter (spec.md §4.8): one JSON
// document as the source of truth for a scan, a colored console summary,
// and a derived HTML artefact rendered from the same Report value the JSON
// is serialized from. Grounded in the teacher's reporter package, generalized from a
// single ScanResult/Vulnerability pair to the full execution_report.json
// schema (profile, ledger, execution records, discovery cache, findings).
package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// GenerateJSONReport writes the full Report as one indented JSON document.
func GenerateJSONReport(report models.Report, outputDir string) (string, error) {
	// Create output directory if not exists
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	// Generate filename
	filename := filepath.Join(outputDir, "execution_report.json")

	// Marshal to JSON
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	// Write to file
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}

	return filename, nil
}

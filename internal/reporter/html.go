package reporter

import (
	"html/template"
	"os"
	"path/filepath"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// htmlTemplate renders only from an already-built Report value — it never
// re-derives anything the JSON document doesn't already contain, per
// spec.md §4.8's "must not contradict the JSON" rule.
const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Vulnerability Assessment Report - {{.Profile.Host}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 1200px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .header { background: #fff; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); margin-bottom: 20px; }
        .summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 20px; }
        .card { background: #fff; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .finding-card { background: #fff; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); margin-bottom: 15px; border-left: 5px solid #ccc; }
        .severity-CRITICAL { border-left-color: #d32f2f; }
        .severity-HIGH { border-left-color: #f57c00; }
        .severity-MEDIUM { border-left-color: #fbc02d; }
        .severity-LOW { border-left-color: #388e3c; }
        .severity-INFO { border-left-color: #607d8b; }
        h1, h2, h3 { margin-top: 0; }
        .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; color: #fff; font-weight: bold; font-size: 0.8em; }
        .bg-CRITICAL { background-color: #d32f2f; }
        .bg-HIGH { background-color: #f57c00; }
        .bg-MEDIUM { background-color: #fbc02d; }
        .bg-LOW { background-color: #388e3c; }
        .bg-INFO { background-color: #607d8b; }
        code { background: #f0f0f0; padding: 2px 5px; border-radius: 3px; font-family: monospace; }
        pre { background: #f0f0f0; padding: 10px; border-radius: 5px; overflow-x: auto; white-space: pre-wrap; word-break: break-all; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 10px; text-align: left; border-bottom: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="header">
        <h1>🛡️ Vulnerability Assessment Report</h1>
        <p><strong>Target:</strong> {{.Profile.Host}} ({{.Profile.TargetType}})</p>
        <p><strong>Scan ID:</strong> {{.ScanMetadata.ScanID}}</p>
        <p><strong>Started:</strong> {{.ScanMetadata.StartedAt.Format "Jan 02, 2006 15:04:05"}}</p>
        <p><strong>Duration:</strong> {{printf "%.1f" .ScanMetadata.WallSeconds}}s</p>
    </div>

    <div class="summary">
        <div class="card">
            <h3>Live Endpoints</h3>
            <h1>{{len .DiscoveryCache.LiveEndpoints}}</h1>
        </div>
        <div class="card">
            <h3>Findings</h3>
            <h1>{{len .Findings}}</h1>
        </div>
        <div class="card">
            <h3>Confirmed</h3>
            <h1>{{.FindingsSummary.Confirmed}}</h1>
        </div>
        <div class="card">
            <h3>False Positives</h3>
            <h1>{{.FindingsSummary.FalsePositive}}</h1>
        </div>
    </div>

    <h2>🚨 Findings</h2>
    {{range .Findings}}
    <div class="finding-card severity-{{.Severity}}">
        <h3><span class="badge bg-{{.Severity}}">{{.Severity}}</span> {{.Category}}</h3>
        <p><strong>Endpoint:</strong> <code>{{.Endpoint}}{{if .Parameter}}?{{.Parameter}}{{end}}</code></p>
        <p><strong>Correlation:</strong> {{.Correlation}} ({{.CorroborationCount}} tool(s)) &mdash; <strong>Confidence:</strong> {{printf "%.2f" .Confidence}} ({{.ConfidenceLabel}})</p>
        <p><strong>CWE:</strong> {{.CWE}} &mdash; <strong>OWASP:</strong> {{.OWASPCategory}}</p>
        {{if .Evidence}}
        <h4>Evidence:</h4>
        <pre>{{.Evidence}}</pre>
        {{end}}
    </div>
    {{else}}
    <div class="card">
        <p>✅ No findings.</p>
    </div>
    {{end}}

    <h2>🔍 Live Endpoints</h2>
    <div class="card">
        <table>
            <thead><tr><th>URL</th></tr></thead>
            <tbody>
                {{range .DiscoveryCache.LiveEndpoints}}
                <tr><td>{{.}}</td></tr>
                {{end}}
            </tbody>
        </table>
    </div>
</body>
</html>
`

// GenerateHTMLReport renders report as a standalone HTML artefact, purely
// a read-only view of data the JSON report already contains.
func GenerateHTMLReport(report models.Report, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}

	filename := filepath.Join(outputDir, "security_report.html")

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := tmpl.Execute(file, report); err != nil {
		return "", err
	}

	return filename, nil
}

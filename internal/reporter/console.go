package reporter

import (
	"fmt"
	"os"

	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintConsoleSummary prints the scan's headline numbers and a severity-
// sorted findings table, binning every ledger tool into executed/blocked/
// skipped per spec.md §4.8's "never silently omitted" rule.
func PrintConsoleSummary(report models.Report) {
	fmt.Println()
	color.Cyan("═══════════════════════════════════════════════════════════")
	color.Cyan("  SCAN SUMMARY")
	color.Cyan("═══════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Printf("Target:      %s\n", report.Profile.Host)
	fmt.Printf("Scan ID:     %s\n", report.ScanMetadata.ScanID)
	fmt.Printf("Duration:    %.1fs\n", report.ScanMetadata.WallSeconds)
	fmt.Printf("Live URLs:   %d\n", len(report.DiscoveryCache.LiveEndpoints))
	fmt.Printf("Findings:    %d\n", len(report.Findings))
	fmt.Println()

	printToolBins(report.Ledger, report.ExecutionRecords)
	fmt.Println()

	if len(report.Findings) > 0 {
		color.Red("🚨 FINDINGS:")
		fmt.Println()

		models.SortFindings(report.Findings)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Severity", "Category", "Endpoint", "Correlation", "Confidence"})
		table.SetBorder(false)
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
		)

		for _, f := range report.Findings {
			severityColor := tablewriter.Colors{}
			switch f.Severity {
			case models.SeverityCritical:
				severityColor = tablewriter.Colors{tablewriter.Bold, tablewriter.FgRedColor}
			case models.SeverityHigh:
				severityColor = tablewriter.Colors{tablewriter.FgRedColor}
			case models.SeverityMedium:
				severityColor = tablewriter.Colors{tablewriter.FgYellowColor}
			case models.SeverityLow, models.SeverityInfo:
				severityColor = tablewriter.Colors{tablewriter.FgGreenColor}
			}

			table.Rich([]string{
				string(f.Severity),
				string(f.Category),
				truncate(f.Endpoint, 50),
				string(f.Correlation),
				fmt.Sprintf("%.2f (%s)", f.Confidence, f.ConfidenceLabel),
			}, []tablewriter.Colors{severityColor, {}, {}, {}, {}})
		}
		table.Render()
	} else {
		color.Green("✅ No findings.")
	}

	fmt.Println()
}

// printToolBins enumerates every ledger-tracked tool as executed, blocked,
// or skipped — spec.md §4.8 requires every tool appear in exactly one bin.
func printToolBins(ledger map[string]models.ToolDecision, records map[string]models.ExecutionRecord) {
	var executed, blocked, skipped []string
	for tool, decision := range ledger {
		if !decision.Allows() {
			blocked = append(blocked, tool)
			continue
		}
		rec, ran := records[tool]
		switch {
		case !ran:
			skipped = append(skipped, tool)
		case rec.Outcome == models.OutcomeSkipped:
			skipped = append(skipped, tool)
		default:
			executed = append(executed, tool)
		}
	}
	fmt.Printf("Tools executed: %d   blocked: %d   skipped: %d\n", len(executed), len(blocked), len(skipped))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

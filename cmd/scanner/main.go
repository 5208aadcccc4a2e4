package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/catalogue"
	"github.com/SpaceLeam/vapt-engine/internal/config"
	"github.com/SpaceLeam/vapt-engine/internal/crawler"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/ledger"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/parsers"
	"github.com/SpaceLeam/vapt-engine/internal/planner"
	"github.com/SpaceLeam/vapt-engine/internal/profile"
	"github.com/SpaceLeam/vapt-engine/internal/reporter"
	"github.com/SpaceLeam/vapt-engine/internal/runner"
	"github.com/SpaceLeam/vapt-engine/internal/scheduler"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

const engineVersion = "1.0.0"

var (
	verbose          bool
	skipInstall      bool
	checkToolsOnly   bool
	target           string
	outputDir        string
	runtimeBudget    time.Duration
	workers          int
	configFile       string
	registrationFile string
	cookies          []string
	headers          []string
	maxDepth         int
	enableJSCrawl    bool
	browserType      string
	headless         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "vapt-engine",
		Short:   "Automated vulnerability assessment orchestration engine",
		Version: engineVersion,
		Run:     runScan,
	}

	rootCmd.Flags().StringVarP(&target, "target", "u", "", "Target host, domain, or IP (required)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "reports", "Report output directory")
	rootCmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Never shell out to an installer for a missing tool")
	rootCmd.Flags().DurationVar(&runtimeBudget, "runtime-budget", 20*time.Minute, "Total wall-clock budget for the scan")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 4, "Per-phase concurrent tool workers")
	rootCmd.Flags().BoolVar(&checkToolsOnly, "check-tools", false, "Print catalogue tool availability and exit")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file (scoring weights, heuristic word lists)")
	rootCmd.Flags().StringVar(&registrationFile, "tool-registration", "", "JSON file registering or overriding catalogue tools")
	rootCmd.Flags().StringArrayVar(&cookies, "cookie", nil, "Cookie as name=value for the single authenticated credential set (repeatable)")
	rootCmd.Flags().StringArrayVar(&headers, "header", nil, "Header as Name: Value for the single authenticated credential set (repeatable)")
	rootCmd.Flags().IntVarP(&maxDepth, "depth", "d", 2, "Max crawl depth")
	rootCmd.Flags().BoolVar(&enableJSCrawl, "js-crawl", false, "Has no effect: the headless-browser crawl enhancer always runs for subdomain and IP targets and never for root-domain targets")
	rootCmd.Flags().StringVarP(&browserType, "browser", "b", "firefox", "Headless browser for the JS-crawl enhancer")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "Run the JS-crawl enhancer's browser headless")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.MarkFlagRequired("target")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) {
	logger := utils.NewLogger(verbose)
	logger.Banner("🛡️ Vulnerability Assessment Engine v" + engineVersion)

	weights, wordlists, err := config.Load(configFile)
	if err != nil {
		logger.Fatal(fmt.Errorf("loading config: %w", err))
	}

	cfg := models.ScanConfig{
		Target:               target,
		OutputDir:            outputDir,
		SkipInstall:          skipInstall,
		RuntimeBudget:        runtimeBudget,
		Workers:              workers,
		CheckToolsOnly:       checkToolsOnly,
		ToolRegistrationFile: registrationFile,
		ConfigFile:           configFile,
		MaxDepth:             maxDepth,
		EnableJSCrawl:        enableJSCrawl,
		BrowserType:          browserType,
		Headless:             headless,
		Weights:              weights,
		Wordlists:            wordlists,
		Creds:                parseCredentials(cookies, headers),
		Verbose:              verbose,
	}

	cat := catalogue.Default()
	if cfg.ToolRegistrationFile != "" {
		if err := cat.LoadRegistrationFile(cfg.ToolRegistrationFile); err != nil {
			logger.Fatal(fmt.Errorf("loading tool registration file: %w", err))
		}
	}
	cfg.Weights = catalogue.DefaultWeights(cfg.Weights, cat.Names())

	if cfg.CheckToolsOnly {
		printToolAvailability(cat, logger)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startedAt := time.Now()
	scanID := uuid.NewString()

	logger.Section("Phase 1: Target Profiling")
	builder := profile.NewBuilder()
	p, err := builder.Build(ctx, cfg.Target)
	if err != nil {
		logger.Error("building profile: %v", err)
		os.Exit(reporter.ExitCode(nil, err))
	}
	logger.Success("target_type=%s scope=%s web_target=%v https_capable=%v", p.TargetType, p.Scope, p.WebTarget, p.HTTPSCapable)

	if vendor := profile.ProbeWAF(ctx, p); vendor != "" {
		logger.Info("WAF fingerprint: %s", vendor)
	}

	logger.Section("Phase 2: Decision Ledger")
	l := ledger.Build(p, cat)

	logger.Section("Phase 3: Execution Plan")
	plan, err := planner.Build(p, cat, l)
	if err != nil {
		logger.Error("building plan: %v", err)
		os.Exit(reporter.ExitCode(nil, err))
	}

	c := cache.New(cfg.Wordlists)
	reg := findings.New(cfg.Weights)

	if p.WebTarget {
		logger.Section("Phase 4: Crawl")
		gateCfg := crawler.DefaultGateConfig()
		gateCfg.MaxDepth = cfg.MaxDepth
		gateCfg.EnableJSCrawl = cfg.EnableJSCrawl || p.TargetType != models.TargetRootDomain
		gateCfg.BrowserType = cfg.BrowserType
		gateCfg.Headless = cfg.Headless
		gateCfg.Creds = cfg.Creds
		crawler.Gate(ctx, p, c, gateCfg, logger)
		logger.Info("discovered %d endpoints, %d live, %d params", len(c.Endpoints()), len(c.LiveEndpoints()), len(c.Params()))
	}

	logger.Section("Phase 5: Tool Execution")
	budget := runner.NewBudget(cfg.RuntimeBudget)
	trace := utils.NewTrace(cfg.Verbose)
	defer trace.Sync()

	run := runner.New(c, l, budget, reg, p, cfg.OutputDir, logger, trace, cfg.SkipInstall)
	wireParsers(run, p, cfg.Target)

	sched := scheduler.New(cfg.Workers, logger, func(ctx context.Context, entry models.PlanEntry) models.ExecutionRecord {
		return run.Run(ctx, entry, models.TargetFor(p))
	})
	results := sched.Execute(ctx, plan.ByPhase())

	records := map[string]models.ExecutionRecord{}
	for _, res := range results {
		records[res.Entry.Tool] = res.Record
	}
	records = reporter.Reconcile(l.Snapshot(), records)

	logger.Section("Phase 6: Findings Correlation")
	found := reg.Finalize()
	summary := reporter.Summarize(found)
	payloadAttempts := reporter.SummarizePayloads(records, found)

	report := models.Report{
		Profile:          p.Snapshot(),
		HTTPSCapability:  p.HTTPSCapable,
		Ledger:           l.Snapshot(),
		ExecutionRecords: records,
		DiscoveryCache:   c.Summary(),
		Findings:         found,
		FindingsSummary:  summary,
		PayloadAttempts:  payloadAttempts,
		ScanMetadata: models.ScanMetadata{
			ScanID:        scanID,
			EngineVersion: engineVersion,
			StartedAt:     startedAt,
			EndedAt:       time.Now(),
			WallSeconds:   time.Since(startedAt).Seconds(),
		},
		Weights: cfg.Weights,
	}

	logger.Section("Phase 7: Reporting")
	reporter.PrintConsoleSummary(report)

	jsonFile, err := reporter.GenerateJSONReport(report, cfg.OutputDir)
	if err != nil {
		logger.Error("failed to write JSON report: %v", err)
	} else {
		logger.Success("JSON: %s", jsonFile)
	}

	htmlFile, err := reporter.GenerateHTMLReport(report, cfg.OutputDir)
	if err != nil {
		logger.Error("failed to write HTML report: %v", err)
	} else {
		logger.Success("HTML: %s", htmlFile)
	}

	os.Exit(reporter.ExitCode(found, nil))
}

// wireParsers registers one ParseFunc per catalogue tool family. Several
// families cover more than one tool name (testssl/sslyze both feed TLS;
// dalfox/xsstrike/xsser all feed Reflection; subfinder/amass both feed
// Subdomains) since the tools differ in invocation but agree on the shape
// of what they report.
func wireParsers(run *runner.Runner, p *models.Profile, rawTarget string) {
	t := models.TargetFor(p)

	run.Parsers["dns-enum"] = parsers.DNS
	run.Parsers["dns-minimal"] = parsers.DNS
	run.Parsers["subfinder"] = parsers.Subdomains
	run.Parsers["amass"] = parsers.Subdomains
	run.Parsers["nmap-quick"] = parsers.PortScan
	run.Parsers["nmap-vuln"] = parsers.PortScanVuln
	run.Parsers["whatweb"] = parsers.WebFingerprint(p)
	run.Parsers["testssl"] = parsers.TLS
	run.Parsers["sslyze"] = parsers.TLS
	run.Parsers["gobuster"] = parsers.DirBrute(t.URL)
	run.Parsers["dirsearch"] = parsers.DirBrute(t.URL)
	run.Parsers["wpscan"] = parsers.CMS
	run.Parsers["nikto"] = parsers.Access(t.URL)
	run.Parsers["sqlmap"] = parsers.Injection(t.URL)
	run.Parsers["commix"] = parsers.Injection(t.URL)
	run.Parsers["dalfox"] = parsers.Reflection
	run.Parsers["xsstrike"] = parsers.Reflection
	run.Parsers["xsser"] = parsers.Reflection
	run.Parsers["ssrfmap"] = parsers.SSRF(t.URL)
	run.Parsers["nuclei"] = parsers.Template
}

// parseCredentials builds the scan's single optional credential set from
// repeated --cookie name=value and --header "Name: Value" flags. Returns nil
// when neither flag was given, matching GateConfig's "no credentials" case.
func parseCredentials(cookies, headers []string) *models.Credentials {
	if len(cookies) == 0 && len(headers) == 0 {
		return nil
	}
	creds := &models.Credentials{Cookies: map[string]string{}, Headers: map[string]string{}}
	for _, c := range cookies {
		name, value, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		creds.Cookies[name] = value
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		creds.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return creds
}

func printToolAvailability(cat *catalogue.Catalogue, logger *utils.Logger) {
	for _, name := range cat.Names() {
		d, _ := cat.Get(name)
		binary := ""
		if len(d.CommandTemplate) > 0 {
			binary = d.CommandTemplate[0]
		}
		if _, err := exec.LookPath(binary); err == nil {
			logger.Success("%-12s available (%s)", name, binary)
		} else {
			logger.Warn("%-12s missing   (%s) — %s", name, binary, d.InstallHint)
		}
	}
}

// Package runner implements the Tool Runner (spec.md §4.5): budget check,
// ledger check, prerequisite check, availability check, command
// templating, subprocess execution, outcome classification, and the
// one-retry-on-timeout policy. Grounded in the teacher's subprocess
// orchestration style, generalized from a single scanner's exec.Command
// calls into one tool-agnostic runner.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/ledger"
	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

const (
	stdoutHeadTailBytes = 2048
	stderrCeilingBytes  = 4096
	killGrace           = 5 * time.Second
)

// Budget tracks the global runtime budget across the whole scan.
type Budget struct {
	deadline time.Time
}

// NewBudget starts a budget with the given total wall-clock duration.
func NewBudget(total time.Duration) *Budget {
	return &Budget{deadline: time.Now().Add(total)}
}

// Exhausted reports whether the global budget has elapsed.
func (b *Budget) Exhausted() bool {
	return time.Now().After(b.deadline)
}

// Remaining returns the time left in the budget (never negative).
func (b *Budget) Remaining() time.Duration {
	d := time.Until(b.deadline)
	if d < 0 {
		return 0
	}
	return d
}

// ParseFunc parses one tool's completed stdout/stderr, writing discovered
// signals into cache and findings into the findings registry. It returns
// an error only on genuine parse failure (spec.md §7's ParseFailure), which
// never aborts the scan — the execution record's outcome is kept as-is.
type ParseFunc func(rec *models.ExecutionRecord, cache *cache.Cache, reg *findings.Registry) error

// Runner executes plan entries against a shared cache/ledger/budget.
type Runner struct {
	Cache       *cache.Cache
	Ledger      *ledger.Ledger
	Budget      *Budget
	Registry    *findings.Registry
	Profile     *models.Profile
	OutputDir   string
	Logger      *utils.Logger
	Trace       *utils.Trace
	Parsers     map[string]ParseFunc
	LookPath    func(string) (string, error)
	skipInstall bool
}

// New builds a Runner. lookPath defaults to exec.LookPath; tests may
// substitute a fake.
func New(c *cache.Cache, l *ledger.Ledger, budget *Budget, reg *findings.Registry, profile *models.Profile, outputDir string, logger *utils.Logger, trace *utils.Trace, skipInstall bool) *Runner {
	return &Runner{
		Cache:       c,
		Ledger:      l,
		Budget:      budget,
		Registry:    reg,
		Profile:     profile,
		OutputDir:   outputDir,
		Logger:      logger,
		Trace:       trace,
		Parsers:     map[string]ParseFunc{},
		LookPath:    exec.LookPath,
		skipInstall: skipInstall,
	}
}

// capabilityCheck reports the first missing required capability, or "" if
// all are satisfied. Evaluated against the live cache at dispatch time,
// because signals accumulate as the scan proceeds (spec.md §4.4).
func (r *Runner) capabilityCheck(entry models.PlanEntry) string {
	for _, c := range entry.RequiredCapabilities {
		if !r.satisfies(c) {
			return string(c)
		}
	}
	return ""
}

func (r *Runner) satisfies(c models.Capability) bool {
	switch c {
	case models.CapWebTarget, models.CapHTTPS, models.CapTLSService:
		// Enforced by the ledger already at build time; nothing left to
		// re-check here.
		return true
	case models.CapWordpress:
		// detected_cms is written during WebDetect/Crawl, after the ledger
		// is frozen, so this is a genuine runtime re-check rather than a
		// pass-through.
		return r.Profile != nil && r.Profile.DetectedCMS() == "wordpress"
	case models.CapLiveEndpoints:
		return r.Cache.HasLiveEndpoints()
	case models.CapReflections:
		return r.Cache.HasReflections()
	case models.CapParams:
		return r.Cache.HasParams()
	case models.CapCommandParams:
		return r.Cache.HasCommandParams()
	case models.CapSSRFParams:
		return r.Cache.HasSSRFParams()
	default:
		return true
	}
}

// Run executes one plan entry end to end, implementing run(entry, cache,
// ledger, budgets) → ExecutionRecord from spec.md §4.5.
func (r *Runner) Run(ctx context.Context, entry models.PlanEntry, target models.Target) models.ExecutionRecord {
	rec := models.ExecutionRecord{Tool: entry.Tool, StartedAt: time.Now()}

	// 1. Budget check.
	if r.Budget.Exhausted() {
		return finish(rec, models.OutcomeSkipped, models.ReasonBudgetExhausted)
	}

	// 2. Ledger check.
	dec, err := r.Ledger.Decision(entry.Tool)
	if err != nil || !dec.Allows() {
		return finish(rec, models.OutcomeBlocked, models.ReasonPolicyDenied)
	}

	// 3. Prereq check.
	if missing := r.capabilityCheck(entry); missing != "" {
		return finish(rec, models.OutcomeBlocked, models.ReasonPrereqMissing)
	}

	// 4. Availability check.
	binary := entry.CommandTemplate[0]
	path, lookErr := r.LookPath(binary)
	if lookErr != nil {
		return finish(rec, models.OutcomeBlocked, models.ReasonToolNotInstalled)
	}

	// 5. Scope-expand command.
	args := substitute(entry.CommandTemplate[1:], target)

	timeout := entry.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if remaining := r.Budget.Remaining(); remaining < timeout {
		timeout = remaining
	}

	rec = r.execute(ctx, rec, path, args, timeout)

	// 9. Retry policy: one retry on TIMEOUT for non-blocking tools if
	// budget allows the declared timeout again.
	if rec.Outcome == models.OutcomeTimeout && !dec.Blocking && r.Budget.Remaining() >= entry.Timeout {
		rec.Retried = true
		if r.Trace != nil {
			r.Trace.ToolRetried(entry.Tool, 1)
		}
		rec = r.execute(ctx, rec, path, args, timeout)
	}

	if parser, ok := r.Parsers[entry.Tool]; ok {
		if perr := parser(&rec, r.Cache, r.Registry); perr != nil {
			rec.ParseFailed = true
		}
	}

	if r.Trace != nil {
		r.Trace.ToolFinished(entry.Tool, string(rec.Outcome), string(rec.FailureReason), rec.DurationMS)
	}
	return rec
}

func (r *Runner) execute(ctx context.Context, rec models.ExecutionRecord, path string, args []string, timeout time.Duration) models.ExecutionRecord {
	if r.Trace != nil {
		r.Trace.ToolStarted(rec.Tool, args)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.WaitDelay = killGrace // SIGTERM then SIGKILL after a grace period

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	rec.DurationMS = duration.Milliseconds()
	rec.EndedAt = time.Now()
	rec.StdoutHead, rec.StdoutTail = headTail(stdout.String(), stdoutHeadTailBytes)
	truncatedStderr, truncatedBytes := truncate(stderr.String(), stderrCeilingBytes)
	rec.StderrHead = truncatedStderr
	rec.StderrTruncatedBytes = truncatedBytes

	if runCtx.Err() == context.DeadlineExceeded {
		return finishRec(rec, models.OutcomeTimeout, models.ReasonTimeout)
	}

	exitCode := exitCodeOf(runErr)
	return classify(rec, rec.Tool, exitCode, stdout.String(), stderr.String())
}

// classify implements the per-tool outcome classification rules from
// spec.md §4.5. It never panics on an unrecognized tool name — it falls
// back to the generic rc=0 rule set.
func classify(rec models.ExecutionRecord, tool string, rc int, stdout, stderr string) models.ExecutionRecord {
	switch rc {
	case 127:
		return finishRec(rec, models.OutcomeBlocked, models.ReasonToolNotInstalled)
	case 126:
		return finishRec(rec, models.OutcomeBlocked, models.ReasonPermissionDenied)
	}

	stdoutTrim := strings.TrimSpace(stdout)
	stderrTrim := strings.TrimSpace(stderr)

	switch tool {
	case "nikto":
		if rc == 0 || rc == 141 {
			if stdoutTrim != "" {
				return finishRec(rec, models.OutcomeSuccessWithFindings, models.ReasonNone)
			}
			return finishRec(rec, models.OutcomeExecutedNoSignal, models.ReasonNone)
		}
	case "nuclei":
		if rc == 0 {
			if stdoutTrim != "" {
				return finishRec(rec, models.OutcomeSuccessWithFindings, models.ReasonNone)
			}
			return finishRec(rec, models.OutcomeExecutedNoSignal, models.ReasonNone)
		}
		if rc == 1 {
			if stdoutTrim != "" {
				return finishRec(rec, models.OutcomeSuccessWithFindings, models.ReasonNone)
			}
			if stderrTrim == "" {
				return finishRec(rec, models.OutcomeSuccessNoFindings, models.ReasonNone)
			}
			return finishRec(rec, models.OutcomeExecutionError, models.ReasonUnknownError)
		}
	case "gobuster", "dirsearch":
		if rc == 0 {
			if stdoutTrim != "" {
				return finishRec(rec, models.OutcomeSuccessWithFindings, models.ReasonNone)
			}
			return finishRec(rec, models.OutcomeExecutedNoSignal, models.ReasonNone)
		}
		if rc == 1 {
			if stdoutTrim != "" {
				return finishRec(rec, models.OutcomeSuccessWithFindings, models.ReasonNone)
			}
			lower := strings.ToLower(stderrTrim)
			if strings.Contains(lower, "invalid") || strings.Contains(lower, "flag") {
				return finishRec(rec, models.OutcomeExecutionError, models.ReasonArgumentError)
			}
			return finishRec(rec, models.OutcomeSuccessNoFindings, models.ReasonNone)
		}
	}

	// Generic rule.
	if rc == 0 {
		if stdoutTrim == "" {
			return finishRec(rec, models.OutcomeExecutedNoSignal, models.ReasonNone)
		}
		if containsNegativeSignal(stdoutTrim) {
			return finishRec(rec, models.OutcomeSuccessNoFindings, models.ReasonNone)
		}
		return finishRec(rec, models.OutcomeSuccessWithFindings, models.ReasonNone)
	}

	return finishRec(rec, models.OutcomeExecutionError, models.ReasonUnknownError)
}

func containsNegativeSignal(stdout string) bool {
	lower := strings.ToLower(stdout)
	return strings.Contains(lower, "no issues") || strings.Contains(lower, "0 findings") || strings.Contains(lower, "no vulnerabilities")
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal())
			}
			return ws.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return -1
}

func headTail(s string, n int) (string, string) {
	if len(s) <= n {
		return s, ""
	}
	return s[:n], s[len(s)-n:]
}

func truncate(s string, ceiling int) (string, int) {
	if len(s) <= ceiling {
		return s, 0
	}
	return s[:ceiling] + "...[truncated]", len(s) - ceiling
}

func finish(rec models.ExecutionRecord, outcome models.Outcome, reason models.FailureReason) models.ExecutionRecord {
	rec.EndedAt = time.Now()
	return finishRec(rec, outcome, reason)
}

func finishRec(rec models.ExecutionRecord, outcome models.Outcome, reason models.FailureReason) models.ExecutionRecord {
	rec.Outcome = outcome
	rec.FailureReason = reason
	return rec
}

// substitute replaces {url}/{host}/{target} placeholders in a command
// template's argv with the target's literal values. No shell interpolation
// is performed anywhere — every argument is inserted as a single argv
// token, per spec.md §6.
func substitute(args []string, target models.Target) []string {
	out := make([]string, len(args))
	for i, a := range args {
		a = strings.ReplaceAll(a, "{url}", target.URL)
		a = strings.ReplaceAll(a, "{host}", target.Host)
		a = strings.ReplaceAll(a, "{target}", target.Target)
		out[i] = a
	}
	return out
}

package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/catalogue"
	"github.com/SpaceLeam/vapt-engine/internal/findings"
	"github.com/SpaceLeam/vapt-engine/internal/ledger"
	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestBudgetExhaustedAndRemaining(t *testing.T) {
	b := NewBudget(50 * time.Millisecond)
	assert.False(t, b.Exhausted())
	assert.Greater(t, b.Remaining(), time.Duration(0))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, b.Exhausted())
	assert.Equal(t, time.Duration(0), b.Remaining())
}

func TestSubstituteReplacesPlaceholders(t *testing.T) {
	target := models.Target{URL: "https://example.com", Host: "example.com", Target: "example.com"}
	out := substitute([]string{"-u", "{url}", "--host={host}", "{target}"}, target)
	assert.Equal(t, []string{"-u", "https://example.com", "--host=example.com", "example.com"}, out)
}

func TestHeadTailSplitsLongOutput(t *testing.T) {
	head, tail := headTail("short", 10)
	assert.Equal(t, "short", head)
	assert.Empty(t, tail)

	long := "0123456789ABCDEFGHIJ"
	head, tail = headTail(long, 5)
	assert.Equal(t, "01234", head)
	assert.Equal(t, "FGHIJ", tail)
}

func TestTruncateCeilsStderr(t *testing.T) {
	s, n := truncate("short", 10)
	assert.Equal(t, "short", s)
	assert.Equal(t, 0, n)

	s, n = truncate("0123456789ABCDE", 10)
	assert.Equal(t, "0123456789...[truncated]", s)
	assert.Equal(t, 5, n)
}

func TestClassifyToolNotInstalledRC127(t *testing.T) {
	rec := models.ExecutionRecord{Tool: "nikto"}
	out := classify(rec, "nikto", 127, "", "")
	assert.Equal(t, models.OutcomeBlocked, out.Outcome)
	assert.Equal(t, models.ReasonToolNotInstalled, out.FailureReason)
}

func TestClassifyNiktoSuccessWithFindings(t *testing.T) {
	rec := models.ExecutionRecord{Tool: "nikto"}
	out := classify(rec, "nikto", 0, "+ /admin/: found\n", "")
	assert.Equal(t, models.OutcomeSuccessWithFindings, out.Outcome)
}

func TestClassifyGenericNegativeSignalIsNoFindings(t *testing.T) {
	rec := models.ExecutionRecord{Tool: "some-tool"}
	out := classify(rec, "some-tool", 0, "scan complete: no issues found\n", "")
	assert.Equal(t, models.OutcomeSuccessNoFindings, out.Outcome)
}

func TestClassifyGenericEmptyStdoutIsNoSignal(t *testing.T) {
	rec := models.ExecutionRecord{Tool: "some-tool"}
	out := classify(rec, "some-tool", 0, "   ", "")
	assert.Equal(t, models.OutcomeExecutedNoSignal, out.Outcome)
}

func TestExitCodeOfNilErrorIsZero(t *testing.T) {
	assert.Equal(t, 0, exitCodeOf(nil))
	assert.Equal(t, -1, exitCodeOf(errors.New("not an exec error")))
}

func newTestRunner(t *testing.T) (*Runner, *models.Profile) {
	t.Helper()
	p := &models.Profile{Host: "example.com", TargetType: models.TargetRootDomain, WebTarget: true, HTTPSCapable: true, Reachable: true}
	cat := catalogue.Default()
	l := ledger.Build(p, cat)
	c := cache.New(models.DefaultHeuristicWordlists())
	reg := findings.New(models.DefaultScoringWeights())
	r := New(c, l, NewBudget(10*time.Second), reg, p, t.TempDir(), nil, nil, false)
	return r, p
}

func TestRunSkipsWhenBudgetExhausted(t *testing.T) {
	r, _ := newTestRunner(t)
	r.Budget = NewBudget(0)
	entry := models.PlanEntry{Tool: "nikto", CommandTemplate: []string{"echo", "hi"}}

	rec := r.Run(context.Background(), entry, models.Target{})
	assert.Equal(t, models.OutcomeSkipped, rec.Outcome)
	assert.Equal(t, models.ReasonBudgetExhausted, rec.FailureReason)
}

func TestRunBlockedWhenLedgerDeniesTool(t *testing.T) {
	r, _ := newTestRunner(t)
	// dns-enum is denied for a root-domain profile? No: allowed. Use a tool
	// whose static gate denies for this profile instead.
	p := &models.Profile{Host: "1.2.3.4", TargetType: models.TargetIP, WebTarget: false}
	cat := catalogue.Default()
	r.Ledger = ledger.Build(p, cat)
	entry := models.PlanEntry{Tool: "nikto", CommandTemplate: []string{"echo", "hi"}}

	rec := r.Run(context.Background(), entry, models.Target{})
	assert.Equal(t, models.OutcomeBlocked, rec.Outcome)
	assert.Equal(t, models.ReasonPolicyDenied, rec.FailureReason)
}

func TestRunBlockedWhenBinaryMissing(t *testing.T) {
	r, _ := newTestRunner(t)
	r.LookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	entry := models.PlanEntry{Tool: "nmap-quick", CommandTemplate: []string{"nmap", "-F", "{target}"}, Timeout: time.Second}

	rec := r.Run(context.Background(), entry, models.Target{Target: "example.com"})
	assert.Equal(t, models.OutcomeBlocked, rec.Outcome)
	assert.Equal(t, models.ReasonToolNotInstalled, rec.FailureReason)
}

func TestRunExecutesAllowedToolAndRecordsStdout(t *testing.T) {
	r, _ := newTestRunner(t)
	r.LookPath = func(bin string) (string, error) { return exec.LookPath(bin) }
	entry := models.PlanEntry{
		Tool:            "nmap-quick",
		CommandTemplate: []string{"echo", "80/tcp open http"},
		Timeout:         5 * time.Second,
	}

	rec := r.Run(context.Background(), entry, models.Target{Target: "example.com"})
	require.NotEqual(t, models.OutcomeBlocked, rec.Outcome)
	assert.Contains(t, rec.StdoutHead, "80/tcp open http")
}

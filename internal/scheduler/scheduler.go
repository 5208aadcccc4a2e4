// Package scheduler implements the phase-synchronous, bounded-concurrency
// dispatch loop from spec.md §5: a single scheduler walks the plan phase by
// phase; within a phase, up to N workers run tools in parallel; phase
// boundaries are synchronization points so phase K+1's prerequisites can
// depend on phase K's cache writes.
package scheduler

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/planner"
	"github.com/SpaceLeam/vapt-engine/internal/runner"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// RunFunc executes one plan entry and returns its execution record. Wired
// to runner.Runner.Run in production; tests may substitute a stub.
type RunFunc func(ctx context.Context, entry models.PlanEntry) models.ExecutionRecord

// Scheduler walks a Plan phase by phase with bounded per-phase concurrency.
type Scheduler struct {
	Workers int
	Logger  *utils.Logger
	Run     RunFunc
}

// New builds a Scheduler with the given worker concurrency (spec.md §5
// defaults to 4; valid range 2-8 is typical but not enforced).
func New(workers int, logger *utils.Logger, run RunFunc) *Scheduler {
	if workers < 1 {
		workers = 4
	}
	return &Scheduler{Workers: workers, Logger: logger, Run: run}
}

// Result pairs a plan entry with its terminal execution record.
type Result struct {
	Entry  models.PlanEntry
	Record models.ExecutionRecord
}

// Execute walks every phase of the plan in order, dispatching each phase's
// entries across up to Workers concurrent goroutines and waiting for the
// phase to fully drain before starting the next. A ctx cancellation (user
// interrupt) stops dispatching new entries but lets in-flight tools finish
// within their own timeouts — the drain-and-partial-report behavior
// spec.md §5 requires.
func (s *Scheduler) Execute(ctx context.Context, groups []planner.PhaseGroup) []Result {
	var all []Result
	for _, group := range groups {
		results := s.runPhase(ctx, group)
		all = append(all, results...)
		if ctx.Err() != nil {
			// Interrupted: stop dispatching further phases, but the
			// results already collected are returned for a partial report.
			break
		}
	}
	return all
}

func (s *Scheduler) runPhase(ctx context.Context, group planner.PhaseGroup) []Result {
	if len(group.Entries) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(int64(s.Workers))
	results := make([]Result, len(group.Entries))

	resultsCh := make(chan struct {
		idx int
		res Result
	}, len(group.Entries))

	for i, entry := range group.Entries {
		i, entry := i, entry
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context already cancelled before dispatch; record as a
			// drained, un-run entry so the report still enumerates it.
			resultsCh <- struct {
				idx int
				res Result
			}{i, Result{Entry: entry, Record: models.ExecutionRecord{Tool: entry.Tool, Outcome: models.OutcomeSkipped, FailureReason: models.ReasonBudgetExhausted}}}
			continue
		}
		go func() {
			defer sem.Release(1)
			if s.Logger != nil {
				s.Logger.Debug("dispatching %s (phase %s)", entry.Tool, group.Phase)
			}
			// A cancelled ctx stops dispatch only; a tool already running
			// keeps going until it exits or hits its own timeout.
			rec := s.Run(context.WithoutCancel(ctx), entry)
			resultsCh <- struct {
				idx int
				res Result
			}{i, Result{Entry: entry, Record: rec}}
		}()
	}

	// Acquire the full weight to block until every goroutine has released,
	// i.e. the phase has fully drained — the synchronization point §5
	// requires between phases.
	_ = sem.Acquire(context.Background(), int64(s.Workers))

	close(resultsCh)
	for r := range resultsCh {
		results[r.idx] = r.res
	}
	return results
}

// NewRunnerFunc adapts a runner.Runner + static target into the RunFunc
// signature the Scheduler dispatches.
func NewRunnerFunc(rn *runner.Runner, target models.Target) RunFunc {
	return func(ctx context.Context, entry models.PlanEntry) models.ExecutionRecord {
		return rn.Run(ctx, entry, target)
	}
}

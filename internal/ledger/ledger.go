// Package ledger builds the Decision Ledger (spec.md §4.3): a frozen,
// per-tool ALLOW/DENY table computed once from the Target Profile, with no
// input from the Discovery Cache.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// Ledger is a frozen map of tool name to ToolDecision. Build populates it;
// once built, further writes panic with an architecture-violation message
// rather than silently no-op, since a post-freeze write is always a caller
// bug.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]models.ToolDecision
	built   bool
}

// New returns an empty, unbuilt Ledger.
func New() *Ledger {
	return &Ledger{entries: map[string]models.ToolDecision{}}
}

// add records a decision. Only callable before Build freezes the ledger.
func (l *Ledger) add(d models.ToolDecision) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.built {
		panic(fmt.Sprintf("ledger: add_decision(%s) after build()", d.Tool))
	}
	l.entries[d.Tool] = d
}

// Build marks the ledger frozen; it is idempotent.
func (l *Ledger) Build() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.built = true
}

// lookup returns a tool's decision and whether it is present. A tool absent
// from the ledger is an architecture violation per spec.md §4.3 — callers
// use Decision to get a usable zero-value-free error instead of a bool.
func (l *Ledger) lookup(tool string) (models.ToolDecision, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.entries[tool]
	return d, ok
}

// Decision returns tool's ToolDecision, or an error if the tool was never
// given a decision — the runner must refuse to execute in that case.
func (l *Ledger) Decision(tool string) (models.ToolDecision, error) {
	d, ok := l.lookup(tool)
	if !ok {
		return models.ToolDecision{}, fmt.Errorf("ledger: %q absent from decision ledger (architecture violation)", tool)
	}
	return d, nil
}

// Allows reports whether tool is allowed. A missing tool is treated as
// denied by this convenience accessor; callers that must distinguish
// "denied" from "never decided" should use Decision directly.
func (l *Ledger) Allows(tool string) bool {
	d, ok := l.lookup(tool)
	return ok && d.Allows()
}

// Denies is the complement of Allows.
func (l *Ledger) Denies(tool string) bool {
	return !l.Allows(tool)
}

// Reason returns the recorded reason for tool's decision.
func (l *Ledger) Reason(tool string) string {
	d, _ := l.lookup(tool)
	return d.Reason
}

// Timeout returns the recorded timeout for tool.
func (l *Ledger) Timeout(tool string) time.Duration {
	d, _ := l.lookup(tool)
	return d.Timeout
}

// Priority returns the recorded priority for tool (smaller runs earlier).
func (l *Ledger) Priority(tool string) int {
	d, _ := l.lookup(tool)
	return d.Priority
}

// Tools returns every tool name the ledger has a decision for.
func (l *Ledger) Tools() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.entries))
	for t := range l.entries {
		out = append(out, t)
	}
	return out
}

// Snapshot returns a copy of every decision, for report serialization.
func (l *Ledger) Snapshot() map[string]models.ToolDecision {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]models.ToolDecision, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

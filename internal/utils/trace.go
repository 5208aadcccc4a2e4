package utils

import (
	"go.uber.org/zap"
)

// Trace is the machine-parseable structured logger for the tool runner's
// subprocess lifecycle (start/stop/timeout/retry). It is deliberately
// separate from Logger: Logger narrates phases and outcomes for a human
// watching the console (colored, terse); Trace records the same lifecycle
// events as structured fields for anything downstream that wants to grep or
// ingest them, without needing to scrape colored text.
type Trace struct {
	z *zap.Logger
}

// NewTrace builds a structured logger. In verbose mode it uses zap's
// development encoder (human-friendly multiline); otherwise a production
// JSON encoder suited to log aggregation.
func NewTrace(verbose bool) *Trace {
	var z *zap.Logger
	var err error
	if verbose {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		z = zap.NewNop()
	}
	return &Trace{z: z}
}

// ToolStarted records that a subprocess has been launched.
func (t *Trace) ToolStarted(tool string, args []string) {
	t.z.Info("tool.started", zap.String("tool", tool), zap.Strings("args", args))
}

// ToolFinished records a subprocess's terminal state.
func (t *Trace) ToolFinished(tool, outcome, reason string, durationMS int64) {
	t.z.Info("tool.finished",
		zap.String("tool", tool),
		zap.String("outcome", outcome),
		zap.String("failure_reason", reason),
		zap.Int64("duration_ms", durationMS),
	)
}

// ToolRetried records a retry decision.
func (t *Trace) ToolRetried(tool string, attempt int) {
	t.z.Warn("tool.retried", zap.String("tool", tool), zap.Int("attempt", attempt))
}

// Sync flushes any buffered log entries; call before process exit.
func (t *Trace) Sync() {
	_ = t.z.Sync()
}

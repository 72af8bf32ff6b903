package core

import (
	"context"
	"io"
	"time"

	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

// Run history listing limits.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// RunStatus is the final state of a reconciliation run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord summarizes one reconciliation run. The reconciled tables are not
// part of it; they live in the service's result cache.
type RunRecord struct {
	ID              string    `json:"id"`
	OldFile         string    `json:"old_file"`
	NewFile         string    `json:"new_file"`
	OptionThreshold float64   `json:"option_threshold"`
	MergeThreshold  float64   `json:"merge_threshold"`
	OldRows         int       `json:"old_rows"`
	NewRows         int       `json:"new_rows"`
	Merged          int       `json:"merged"`
	Added           int       `json:"added"`
	Removed         int       `json:"removed"`
	Status          RunStatus `json:"status"`
	ErrorCode       string    `json:"error_code,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	DurationMS      int64     `json:"duration_ms"`
}

// RunStore persists run summaries.
// GetRun returns an error wrapping ErrRunNotFound for unknown IDs.
// ListRuns returns the newest runs first.
type RunStore interface {
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}

// FileInput is one uploaded table.
type FileInput struct {
	Name string
	Data io.Reader
}

// ReconcileRequest describes a run. Nil thresholds fall back to the
// configured defaults.
type ReconcileRequest struct {
	Old             FileInput
	New             FileInput
	OptionThreshold *float64
	MergeThreshold  *float64
}

// RunResult is a finished run together with its reconciled tables.
type RunResult struct {
	Run    RunRecord
	Result reconcile.Result
}

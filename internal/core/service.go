package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/reconcile/internal/config"
	"github.com/JonMunkholm/reconcile/internal/logging"
	"github.com/JonMunkholm/reconcile/internal/reconcile"
	"github.com/JonMunkholm/reconcile/internal/table"
)

// SaveTimeout bounds how long a run summary may take to persist.
var SaveTimeout = 5 * time.Second

// Service runs reconciliations and keeps their history.
type Service struct {
	store   RunStore
	cfg     config.ReconcileConfig
	limiter *RunLimiter
	results *resultCache
}

// NewService creates a Service. store may be nil, in which case runs are
// only available from the result cache.
func NewService(store RunStore, cfg config.ReconcileConfig) *Service {
	return &Service{
		store:   store,
		cfg:     cfg,
		limiter: NewRunLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		results: newResultCache(cfg.ResultCache),
	}
}

// Config returns the reconciliation settings the service was built with.
func (s *Service) Config() config.ReconcileConfig {
	return s.cfg
}

// ReadTable parses one uploaded file with the configured size limit.
// side ("old" or "new") is only used in error messages.
func (s *Service) ReadTable(side string, in FileInput) (reconcile.Table, error) {
	if in.Data == nil {
		return reconcile.Table{}, fmt.Errorf("%s file: %w", side, ErrNoFile)
	}

	t, err := table.Read(in.Data, table.ReadOptions{
		Comma:      s.cfg.Comma(),
		MaxSize:    s.cfg.MaxFileSize,
		CleanCells: s.cfg.CleanCells,
	})
	if err != nil {
		return reconcile.Table{}, fmt.Errorf("%s file %q: %w", side, in.Name, err)
	}
	return t, nil
}

// WriteRows writes header and rows as CSV with the configured delimiter and
// line endings.
func (s *Service) WriteRows(w io.Writer, header []string, rows []reconcile.Record) error {
	return table.WriteRows(w, header, rows, table.WriteOptions{
		Comma:   s.cfg.Comma(),
		UseCRLF: s.cfg.CRLF,
	})
}

// CompareHeaders reads both files and checks that their headers agree.
// A mismatch is returned as a *reconcile.SchemaMismatchError.
func (s *Service) CompareHeaders(ctx context.Context, oldIn, newIn FileInput) error {
	oldTable, err := s.ReadTable("old", oldIn)
	if err != nil {
		return err
	}
	newTable, err := s.ReadTable("new", newIn)
	if err != nil {
		return err
	}

	if err := reconcile.CompareHeaders(oldTable, newTable); err != nil {
		logging.FromContext(ctx).Debug("header comparison failed",
			"old_file", oldIn.Name,
			"new_file", newIn.Name,
			"error", err,
		)
		return err
	}
	return nil
}

// Reconcile runs a reconciliation of req.New against req.Old.
//
// The run waits for a limiter slot, reads both files, and reconciles them
// under the configured timeout. Every run that gets past argument validation
// is recorded in the run store, failed ones with their error code.
// Successful results are also kept in the result cache.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest) (*RunResult, error) {
	opts, err := s.options(req)
	if err != nil {
		return nil, err
	}

	run := RunRecord{
		ID:              uuid.New().String(),
		OldFile:         req.Old.Name,
		NewFile:         req.New.Name,
		OptionThreshold: opts.OptionThreshold,
		MergeThreshold:  opts.AutomaticMergeThreshold,
		StartedAt:       time.Now().UTC(),
	}

	logger := logging.WithFields(ctx,
		"run_id", run.ID,
		"old_file", run.OldFile,
		"new_file", run.NewFile,
	)
	opts.Progress = progressLogger(logger)

	result, err := s.execute(ctx, &run, req, opts)
	run.DurationMS = time.Since(run.StartedAt).Milliseconds()

	if err != nil {
		run.Status = RunFailed
		run.ErrorCode = MapError(err).Code
		s.save(ctx, run, logger)
		logger.Warn("reconciliation failed", "error", err, "code", run.ErrorCode)
		return nil, err
	}

	run.Status = RunSucceeded
	run.Merged = len(result.Merged)
	run.Added = len(result.Added)
	run.Removed = len(result.Removed)
	s.save(ctx, run, logger)

	rr := &RunResult{Run: run, Result: result}
	s.results.put(rr)

	logger.Info("reconciliation finished",
		"merged", run.Merged,
		"added", run.Added,
		"removed", run.Removed,
		"duration_ms", run.DurationMS,
	)
	return rr, nil
}

// execute does the limited part of a run and fills in the row counts.
func (s *Service) execute(ctx context.Context, run *RunRecord, req ReconcileRequest, opts reconcile.Options) (reconcile.Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return reconcile.Result{}, err
	}
	defer s.limiter.Release()

	oldTable, err := s.ReadTable("old", req.Old)
	if err != nil {
		return reconcile.Result{}, err
	}
	newTable, err := s.ReadTable("new", req.New)
	if err != nil {
		return reconcile.Result{}, err
	}
	run.OldRows = len(oldTable.Rows)
	run.NewRows = len(newTable.Rows)

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	result, err := reconcile.ReconcileContext(runCtx, oldTable, newTable, opts)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, context.DeadlineExceeded):
		return reconcile.Result{}, fmt.Errorf("%w after %s: %w", ErrRunTimeout, s.cfg.Timeout, err)
	case errors.Is(err, context.Canceled):
		return reconcile.Result{}, fmt.Errorf("%w: %w", ErrRunCancelled, err)
	default:
		return reconcile.Result{}, err
	}
}

// options resolves the thresholds for req against the configured defaults.
func (s *Service) options(req ReconcileRequest) (reconcile.Options, error) {
	opts := reconcile.Options{
		OptionThreshold:         s.cfg.OptionThreshold,
		AutomaticMergeThreshold: s.cfg.MergeThreshold,
	}
	if req.OptionThreshold != nil {
		opts.OptionThreshold = *req.OptionThreshold
	}
	if req.MergeThreshold != nil {
		opts.AutomaticMergeThreshold = *req.MergeThreshold
	}

	if err := reconcile.ValidateThreshold("option threshold", opts.OptionThreshold); err != nil {
		return opts, err
	}
	if err := reconcile.ValidateThreshold("merge threshold", opts.AutomaticMergeThreshold); err != nil {
		return opts, err
	}
	return opts, nil
}

// save persists run without letting a cancelled request lose the record.
func (s *Service) save(ctx context.Context, run RunRecord, logger *slog.Logger) {
	if s.store == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SaveTimeout)
	defer cancel()

	if err := s.store.SaveRun(saveCtx, run); err != nil {
		logger.Error("failed to save run", "error", err)
	}
}

// progressLogger logs matching progress at debug level roughly every tenth.
func progressLogger(logger *slog.Logger) reconcile.ProgressFunc {
	return func(done, total int) {
		step := total / 10
		if step == 0 {
			step = 1
		}
		if done%step == 0 || done == total {
			logger.Debug("matching progress", "done", done, "total", total)
		}
	}
}

// GetRun returns the summary of one run.
// The store is consulted first; without a store the result cache is used.
func (s *Service) GetRun(ctx context.Context, id string) (RunRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RunRecord{}, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}

	if s.store == nil {
		rr, err := s.Result(id)
		if err != nil {
			return RunRecord{}, err
		}
		return rr.Run, nil
	}

	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns recent run summaries, newest first.
// limit is clamped to [1, MaxHistoryLimit]; zero means DefaultHistoryLimit.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	if s.store == nil {
		return []RunRecord{}, nil
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Result returns a cached run result. Results are evicted oldest first once
// more than the configured number of runs have finished.
func (s *Service) Result(id string) (*RunResult, error) {
	rr, ok := s.results.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	return rr, nil
}

// LimiterStatus returns the current run limiter state.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until all active runs complete or ctx is cancelled.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

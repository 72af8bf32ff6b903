package reconcile

import (
	"context"
	"math"
)

// Reconcile matches newTable against oldTable and returns the final table
// together with the added and removed review lists.
//
// The headers are checked with CompareHeaders first; a mismatch is returned
// as a *SchemaMismatchError before any matching work. Invalid thresholds or a
// missing header return an error wrapping ErrInvalidArgument.
func Reconcile(oldTable, newTable Table, optionThreshold, automaticMergeThreshold float64) (Result, error) {
	return ReconcileContext(context.Background(), oldTable, newTable, Options{
		OptionThreshold:         optionThreshold,
		AutomaticMergeThreshold: automaticMergeThreshold,
	})
}

// ReconcileContext is Reconcile with cancellation and progress reporting.
// Cancellation is observed between old records during candidate matching,
// the only phase whose cost grows with len(old) x len(new).
func ReconcileContext(ctx context.Context, oldTable, newTable Table, opts Options) (Result, error) {
	if err := validateInputs(oldTable, newTable, opts); err != nil {
		return Result{}, err
	}
	if err := CompareHeaders(oldTable, newTable); err != nil {
		return Result{}, err
	}

	sets, err := BuildMatchSetsContext(ctx, oldTable, newTable, opts.OptionThreshold, opts.Progress)
	if err != nil {
		return Result{}, err
	}

	outcome := Resolve(sets, oldTable, newTable, opts.AutomaticMergeThreshold)
	return Build(outcome, oldTable.Header), nil
}

// validateInputs rejects tables and thresholds the pipeline cannot use.
func validateInputs(oldTable, newTable Table, opts Options) error {
	if len(oldTable.Header) == 0 {
		return invalidArgument("old table has no header")
	}
	if len(newTable.Header) == 0 {
		return invalidArgument("new table has no header")
	}
	if err := ValidateThreshold("option threshold", opts.OptionThreshold); err != nil {
		return err
	}
	return ValidateThreshold("automatic merge threshold", opts.AutomaticMergeThreshold)
}

// ValidateThreshold checks that v is a number in [0, 1].
func ValidateThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalidArgument("%s must be between 0 and 1, got %v", name, v)
	}
	return nil
}

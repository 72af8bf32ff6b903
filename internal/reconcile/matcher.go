package reconcile

// matcher.go scores every old record against every new record.
//
// The scan is all-pairs, O(len(old) x len(new)), with no blocking or index.
// New records are flattened once up front; each old record is flattened once
// before its row of comparisons. Inputs are never modified.

import (
	"context"
	"sort"
)

// BuildMatchSets returns one MatchSet per old record, aligned with
// oldTable.Rows. Each set holds the new records whose similarity is at least
// optionThreshold, best first; ties keep new-table order.
func BuildMatchSets(oldTable, newTable Table, optionThreshold float64) []MatchSet {
	// A background context never cancels, so the error is always nil.
	sets, _ := BuildMatchSetsContext(context.Background(), oldTable, newTable, optionThreshold, nil)
	return sets
}

// BuildMatchSetsContext is BuildMatchSets with cancellation and progress.
//
// ctx is checked before each old record is scored; on cancellation the
// context's error is returned and the partial sets are discarded. progress,
// if non-nil, is called after each old record with the number scored so far.
func BuildMatchSetsContext(ctx context.Context, oldTable, newTable Table, optionThreshold float64, progress ProgressFunc) ([]MatchSet, error) {
	flatNew := make([]string, len(newTable.Rows))
	for j, rec := range newTable.Rows {
		flatNew[j] = Flatten(rec)
	}

	total := len(oldTable.Rows)
	sets := make([]MatchSet, total)

	for i, oldRec := range oldTable.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sets[i] = scoreCandidates(Flatten(oldRec), newTable.Rows, flatNew, optionThreshold)

		if progress != nil {
			progress(i+1, total)
		}
	}

	return sets, nil
}

// scoreCandidates builds the MatchSet for one flattened old record.
func scoreCandidates(flatOld string, newRows []Record, flatNew []string, optionThreshold float64) MatchSet {
	var set MatchSet
	for j, candidate := range flatNew {
		score := Similarity(flatOld, candidate)
		if score < optionThreshold {
			continue
		}
		set = append(set, CandidateMatch{
			NewIndex:   j,
			Record:     newRows[j],
			Similarity: score,
		})
	}

	// Stable: equal scores stay in new-table order
	sort.SliceStable(set, func(a, b int) bool {
		return set[a].Similarity > set[b].Similarity
	})

	return set
}

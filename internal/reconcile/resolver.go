package reconcile

// resolver.go turns match sets into merged, added and removed records.
//
// Old records are visited in their original order. A new record can be
// claimed by at most one old record: the first one whose best candidate it is
// and whose score clears the merge threshold. A later old record with the same
// best candidate is removed even though it had a candidate. The claimed set is
// keyed by position in the new table, so duplicate rows in the new table are
// still told apart.

// Resolve classifies every old and new record.
//
// sets must be aligned with oldTable.Rows, as returned by BuildMatchSets.
// A pair merges only if the old record's best candidate scores strictly
// greater than automaticMergeThreshold and is still unclaimed.
func Resolve(sets []MatchSet, oldTable, newTable Table, automaticMergeThreshold float64) Outcome {
	claimed := make([]bool, len(newTable.Rows))
	var out Outcome

	for i, oldRec := range oldTable.Rows {
		var set MatchSet
		if i < len(sets) {
			set = sets[i]
		}

		best, ok := set.Best()
		if ok && best.Similarity > automaticMergeThreshold && !claimed[best.NewIndex] {
			claimed[best.NewIndex] = true
			out.Merged = append(out.Merged, MergedPair{
				OldIndex:   i,
				NewIndex:   best.NewIndex,
				Old:        oldRec,
				New:        best.Record,
				Similarity: best.Similarity,
			})
			continue
		}

		out.Removed = append(out.Removed, RemovedRecord{
			OldIndex:     i,
			Record:       oldRec,
			Candidate:    best,
			HasCandidate: ok,
		})
	}

	for j, newRec := range newTable.Rows {
		if claimed[j] {
			continue
		}
		out.Added = append(out.Added, newRec)
		out.addedIdx = append(out.addedIdx, j)
	}

	return out
}

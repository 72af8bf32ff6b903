package reconcile

// Build assembles the final table and the two review lists from an outcome.
//
// Merged rows come first, in old-table order: the new record's fields with
// field 0 replaced by the old record's key. Added rows follow unchanged.
// Removed records are left out of the table and returned only as a list.
// Every emitted row is a fresh copy; the outcome's records are not modified.
func Build(o Outcome, oldHeader []string) Result {
	header := make([]string, len(oldHeader))
	copy(header, oldHeader)

	rows := make([]Record, 0, len(o.Merged)+len(o.Added))
	for _, pair := range o.Merged {
		row := pair.New.clone()
		if len(row) > 0 {
			row[0] = pair.Old.Key()
		}
		rows = append(rows, row)
	}

	added := make([]Record, 0, len(o.Added))
	for _, rec := range o.Added {
		rows = append(rows, rec.clone())
		added = append(added, rec)
	}

	addedIdx := make([]int, len(o.AddedIndexes()))
	copy(addedIdx, o.AddedIndexes())

	removed := make([]Record, 0, len(o.Removed))
	for _, r := range o.Removed {
		removed = append(removed, r.Record)
	}

	return Result{
		Table:         Table{Header: header, Rows: rows},
		Added:         added,
		AddedIndexes:  addedIdx,
		Removed:       removed,
		Merged:        o.Merged,
		RemovedDetail: o.Removed,
	}
}

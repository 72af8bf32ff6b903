package reconcile

// Record is one row of a table. Field 0 is the row's stable key.
type Record []string

// Key returns field 0, or "" for a record with no fields.
func (r Record) Key() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// clone returns a copy that shares no backing array with r.
func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Table is an ordered header plus ordered records.
// Every record is expected to have len(Header) fields; producers enforce that.
type Table struct {
	Header []string
	Rows   []Record
}

// CandidateMatch is a new record scored against one old record.
type CandidateMatch struct {
	NewIndex   int     // Position of the record in the new table
	Record     Record  // The new record
	Similarity float64 // Score in [0, 1]
}

// MatchSet holds the candidates for one old record, best first.
// Only candidates at or above the option threshold are present.
type MatchSet []CandidateMatch

// Best returns the top candidate, if any.
func (m MatchSet) Best() (CandidateMatch, bool) {
	if len(m) == 0 {
		return CandidateMatch{}, false
	}
	return m[0], true
}

// MergedPair is an old record accepted as the same entity as a new record.
type MergedPair struct {
	OldIndex   int
	NewIndex   int
	Old        Record
	New        Record
	Similarity float64
}

// RemovedRecord is an old record that was not merged.
// Candidate is the best candidate it had, kept for display; HasCandidate
// is false when no new record reached the option threshold.
type RemovedRecord struct {
	OldIndex     int
	Record       Record
	Candidate    CandidateMatch
	HasCandidate bool
}

// Outcome is the classification of a reconciliation run.
// Merged, Added and Removed partition the input: every old record is in
// exactly one of Merged or Removed, every new record in exactly one of
// Merged or Added.
type Outcome struct {
	Merged  []MergedPair
	Added   []Record
	Removed []RemovedRecord

	addedIdx []int
}

// AddedIndexes returns the new-table positions of the added records,
// aligned with Added.
func (o Outcome) AddedIndexes() []int {
	return o.addedIdx
}

// Result is what a reconciliation hands back to its caller.
type Result struct {
	Table        Table        // Header from the old table; merged rows then added rows
	Added        []Record     // New records nobody claimed
	AddedIndexes []int        // New-table position of each Added record
	Removed      []Record     // Old records that were not merged
	Merged       []MergedPair // Accepted pairs, in old-table order

	// RemovedDetail mirrors Removed with the best rejected candidate, if any.
	RemovedDetail []RemovedRecord
}

// Options controls a reconciliation run.
type Options struct {
	// OptionThreshold is the minimum similarity for a new record to be
	// considered a candidate at all.
	OptionThreshold float64

	// AutomaticMergeThreshold must be strictly exceeded by an old record's
	// best candidate for the pair to merge.
	AutomaticMergeThreshold float64

	// Progress, if set, is called once per old record after it has been
	// scored against the whole new table.
	Progress ProgressFunc
}

// ProgressFunc reports how many old records have been scored out of total.
type ProgressFunc func(done, total int)

// Default thresholds used by the host application.
const (
	DefaultOptionThreshold         = 0.5
	DefaultAutomaticMergeThreshold = 0.7
)

// DefaultOptions returns the thresholds the host application uses by default.
func DefaultOptions() Options {
	return Options{
		OptionThreshold:         DefaultOptionThreshold,
		AutomaticMergeThreshold: DefaultAutomaticMergeThreshold,
	}
}

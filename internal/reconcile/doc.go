// Package reconcile matches the rows of an existing table against a freshly
// imported copy of the same data and decides, row by row, what was merged,
// what was added and what was removed.
//
// The package is pure computation. It performs no I/O, holds no package-level
// state and is safe to call concurrently on independent inputs. Parsing and
// writing delimited files belongs to the table package; presenting the
// added/removed lists for review belongs to the caller.
//
// # Pipeline
//
//  1. [CompareHeaders] rejects tables whose ordered column schemas differ
//     (case and surrounding whitespace are ignored).
//  2. [BuildMatchSets] flattens every record to a single space-joined string
//     and scores each old record against every new record with [Similarity].
//     Candidates below the option threshold are dropped; the rest are sorted
//     by score, highest first, keeping new-table order on ties.
//  3. [Resolve] walks old records in their original order. An old record is
//     merged with its best candidate only when that score is strictly greater
//     than the automatic merge threshold and the candidate has not already been
//     claimed by an earlier old record. Everything else is removed. New
//     records nobody claimed are added.
//  4. [Build] produces the final table: merged rows carry the new record's
//     values with field 0 replaced by the old record's key, followed by the
//     added rows unchanged.
//
// [Reconcile] runs the whole pipeline. [ReconcileContext] does the same with a
// per-old-record progress callback and cancellation through a context.
//
// # Assignment
//
// Assignment is greedy and depends on the order of the old table. Reordering
// the old rows can change which of them claims a contested new row. This is
// not an optimal bipartite matching and is not meant to be one.
//
// # Key column
//
// The key column takes part in the flattened comparison string. High entropy
// keys, such as freshly generated identifiers, therefore lower the score of
// otherwise identical rows.
package reconcile

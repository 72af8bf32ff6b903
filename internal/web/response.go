package web

import (
	"fmt"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

// ReconcileResponse is the JSON body returned by POST /api/reconcile.
type ReconcileResponse struct {
	Run       core.RunRecord     `json:"run"`
	Header    []string           `json:"header"`
	Rows      []reconcile.Record `json:"rows"`
	Added     []reconcile.Record `json:"added"`
	Removed   []RemovedEntry     `json:"removed"`
	Merged    []MergedEntry      `json:"merged"`
	Downloads map[string]string  `json:"downloads"`
}

// MergedEntry describes one accepted pair.
type MergedEntry struct {
	OldKey     string  `json:"old_key"`
	NewKey     string  `json:"new_key"`
	OldIndex   int     `json:"old_index"`
	NewIndex   int     `json:"new_index"`
	Similarity float64 `json:"similarity"`
}

// RemovedEntry is an old record that was not merged, with the best candidate
// it had so a reviewer can see why.
type RemovedEntry struct {
	Record        reconcile.Record `json:"record"`
	BestCandidate *CandidateEntry  `json:"best_candidate,omitempty"`
}

// CandidateEntry is a rejected candidate shown next to a removed record.
type CandidateEntry struct {
	Record     reconcile.Record `json:"record"`
	NewIndex   int              `json:"new_index"`
	Similarity float64          `json:"similarity"`
}

func newReconcileResponse(rr *core.RunResult) ReconcileResponse {
	res := rr.Result

	merged := make([]MergedEntry, len(res.Merged))
	for i, p := range res.Merged {
		merged[i] = MergedEntry{
			OldKey:     p.Old.Key(),
			NewKey:     p.New.Key(),
			OldIndex:   p.OldIndex,
			NewIndex:   p.NewIndex,
			Similarity: p.Similarity,
		}
	}

	removed := make([]RemovedEntry, len(res.RemovedDetail))
	for i, d := range res.RemovedDetail {
		removed[i] = RemovedEntry{Record: d.Record}
		if d.HasCandidate {
			removed[i].BestCandidate = &CandidateEntry{
				Record:     d.Candidate.Record,
				NewIndex:   d.Candidate.NewIndex,
				Similarity: d.Candidate.Similarity,
			}
		}
	}

	downloads := make(map[string]string, 3)
	for _, part := range []string{PartFinal, PartAdded, PartRemoved} {
		downloads[part] = fmt.Sprintf("/api/runs/%s/%s.csv", rr.Run.ID, part)
	}

	return ReconcileResponse{
		Run:       rr.Run,
		Header:    res.Table.Header,
		Rows:      nonNil(res.Table.Rows),
		Added:     nonNil(res.Added),
		Removed:   removed,
		Merged:    merged,
		Downloads: downloads,
	}
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil(rows []reconcile.Record) []reconcile.Record {
	if rows == nil {
		return []reconcile.Record{}
	}
	return rows
}

package reconcile

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func candidateIndexes(set MatchSet) []int {
	out := make([]int, len(set))
	for i, c := range set {
		out[i] = c.NewIndex
	}
	return out
}

func TestBuildMatchSets_SortsDescendingAndStable(t *testing.T) {
	oldTable := Table{
		Header: []string{"ID", "Code"},
		Rows:   []Record{{"1", "ab"}},
	}
	newTable := Table{
		Header: []string{"ID", "Code"},
		Rows: []Record{
			{"1", "ax"}, // 0.75
			{"1", "ay"}, // 0.75
			{"1", "ab"}, // 1.0
		},
	}

	sets := BuildMatchSets(oldTable, newTable, 0.5)
	if len(sets) != 1 {
		t.Fatalf("len(sets) = %d, want 1", len(sets))
	}

	if got, want := candidateIndexes(sets[0]), []int{2, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("candidate order = %v, want %v", got, want)
	}
	if got := sets[0][0].Similarity; got != 1.0 {
		t.Errorf("best similarity = %v, want 1.0", got)
	}
}

func TestBuildMatchSets_OptionThreshold(t *testing.T) {
	oldTable := Table{Header: []string{"ID", "Code"}, Rows: []Record{{"1", "ab"}}}
	newTable := Table{Header: []string{"ID", "Code"}, Rows: []Record{
		{"1", "ax"},   // 0.75
		{"9", "zzzz"}, // far
		{"1", "ab"},   // 1.0
	}}

	tests := []struct {
		name      string
		threshold float64
		want      []int
	}{
		{name: "zero keeps everything", threshold: 0, want: []int{2, 0, 1}},
		{name: "inclusive at exact score", threshold: 0.75, want: []int{2, 0}},
		{name: "just above drops candidate", threshold: 0.76, want: []int{2}},
		{name: "one keeps only exact", threshold: 1.0, want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets := BuildMatchSets(oldTable, newTable, tt.threshold)
			if got := candidateIndexes(sets[0]); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildMatchSets_EmptySetWhenNothingQualifies(t *testing.T) {
	oldTable := Table{Header: []string{"ID", "V"}, Rows: []Record{{"1", "aaaa"}}}
	newTable := Table{Header: []string{"ID", "V"}, Rows: []Record{{"2", "zzzz"}}}

	sets := BuildMatchSets(oldTable, newTable, 0.5)
	if len(sets[0]) != 0 {
		t.Errorf("expected empty match set, got %+v", sets[0])
	}
	if _, ok := sets[0].Best(); ok {
		t.Error("Best() on empty set reported a candidate")
	}
}

func TestBuildMatchSets_DoesNotMutateInputs(t *testing.T) {
	oldTable := Table{Header: []string{"ID", "Name"}, Rows: []Record{{"1", "Alice"}, {"2", "Bob"}}}
	newTable := Table{Header: []string{"ID", "Name"}, Rows: []Record{{"7", "Bob"}, {"8", "Alice"}}}

	oldCopy := Table{Header: append([]string(nil), oldTable.Header...)}
	for _, r := range oldTable.Rows {
		oldCopy.Rows = append(oldCopy.Rows, r.clone())
	}
	newCopy := Table{Header: append([]string(nil), newTable.Header...)}
	for _, r := range newTable.Rows {
		newCopy.Rows = append(newCopy.Rows, r.clone())
	}

	BuildMatchSets(oldTable, newTable, 0)

	if !reflect.DeepEqual(oldTable, oldCopy) {
		t.Errorf("old table mutated: %+v", oldTable)
	}
	if !reflect.DeepEqual(newTable, newCopy) {
		t.Errorf("new table mutated: %+v", newTable)
	}
}

func TestBuildMatchSetsContext_Progress(t *testing.T) {
	oldTable := Table{Header: []string{"ID"}, Rows: []Record{{"a"}, {"b"}, {"c"}}}
	newTable := Table{Header: []string{"ID"}, Rows: []Record{{"a"}}}

	var calls [][2]int
	_, err := BuildMatchSetsContext(context.Background(), oldTable, newTable, 0.5, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	if err != nil {
		t.Fatalf("BuildMatchSetsContext() error = %v", err)
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("progress calls = %v, want %v", calls, want)
	}
}

func TestBuildMatchSetsContext_Cancelled(t *testing.T) {
	oldTable := Table{Header: []string{"ID"}, Rows: []Record{{"a"}, {"b"}, {"c"}}}
	newTable := Table{Header: []string{"ID"}, Rows: []Record{{"a"}}}

	ctx, cancel := context.WithCancel(context.Background())
	scored := 0
	sets, err := BuildMatchSetsContext(ctx, oldTable, newTable, 0.5, func(done, total int) {
		scored = done
		if done == 1 {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if sets != nil {
		t.Errorf("sets = %v, want nil on cancellation", sets)
	}
	if scored != 1 {
		t.Errorf("scored %d records before stopping, want 1", scored)
	}
}

package reconcile

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestReconcile_EndToEnd(t *testing.T) {
	header := []string{"ID", "Name", "City"}
	oldTable := Table{Header: header, Rows: []Record{
		{"001", "Acme Corp", "Denver"},
		{"002", "Soylent LLC", "Reno"},
	}}
	newTable := Table{Header: header, Rows: []Record{
		{"045", "Acme Corp", "Denver"},
		{"099", "Globex Inc", "Austin"},
	}}

	res, err := Reconcile(oldTable, newTable, 0.5, 0.8)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	wantRows := []Record{{"001", "Acme Corp", "Denver"}, {"099", "Globex Inc", "Austin"}}
	if !reflect.DeepEqual(res.Table.Rows, wantRows) {
		t.Errorf("final rows = %v, want %v", res.Table.Rows, wantRows)
	}
	if !reflect.DeepEqual(res.Table.Header, header) {
		t.Errorf("final header = %v, want %v", res.Table.Header, header)
	}
	if want := []Record{{"099", "Globex Inc", "Austin"}}; !reflect.DeepEqual(res.Added, want) {
		t.Errorf("added = %v, want %v", res.Added, want)
	}
	if want := []int{1}; !reflect.DeepEqual(res.AddedIndexes, want) {
		t.Errorf("added indexes = %v, want %v", res.AddedIndexes, want)
	}
	if want := []Record{{"002", "Soylent LLC", "Reno"}}; !reflect.DeepEqual(res.Removed, want) {
		t.Errorf("removed = %v, want %v", res.Removed, want)
	}
	if len(res.Merged) != 1 || !approxEqual(res.Merged[0].Similarity, 0.9) {
		t.Errorf("merged = %+v, want one pair at 0.9", res.Merged)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	table := Table{
		Header: []string{"ID", "Name", "City"},
		Rows: []Record{
			{"1", "Alice", "Oslo"},
			{"2", "Bob", "Rome"},
			{"3", "Carol", "Lima"},
		},
	}

	res, err := Reconcile(table, table, 0.5, 0.7)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(res.Added) != 0 || len(res.Removed) != 0 {
		t.Errorf("added = %v, removed = %v, want both empty", res.Added, res.Removed)
	}
	if len(res.Merged) != len(table.Rows) {
		t.Fatalf("merged = %d, want %d", len(res.Merged), len(table.Rows))
	}
	for i, p := range res.Merged {
		if p.OldIndex != i || p.NewIndex != i || p.Similarity != 1.0 {
			t.Errorf("pair %d = %+v, want self match at 1.0", i, p)
		}
	}
	if !reflect.DeepEqual(res.Table.Rows, table.Rows) {
		t.Errorf("final rows = %v, want %v", res.Table.Rows, table.Rows)
	}
}

func TestReconcile_DisjointDatasets(t *testing.T) {
	header := []string{"ID", "V"}
	oldTable := Table{Header: header, Rows: []Record{{"1", "aaaa"}, {"2", "bbbb"}}}
	newTable := Table{Header: header, Rows: []Record{{"8", "yyyy"}, {"9", "zzzz"}}}

	res, err := Reconcile(oldTable, newTable, 0.5, 0.7)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(res.Merged) != 0 {
		t.Errorf("merged = %+v, want none", res.Merged)
	}
	if !reflect.DeepEqual(res.Removed, oldTable.Rows) {
		t.Errorf("removed = %v, want %v", res.Removed, oldTable.Rows)
	}
	if !reflect.DeepEqual(res.Added, newTable.Rows) {
		t.Errorf("added = %v, want %v", res.Added, newTable.Rows)
	}
	if !reflect.DeepEqual(res.Table.Rows, newTable.Rows) {
		t.Errorf("final rows = %v, want new rows verbatim", res.Table.Rows)
	}
}

func TestReconcile_EmptyRows(t *testing.T) {
	header := []string{"ID"}
	rows := []Record{{"a"}, {"b"}}

	t.Run("empty old", func(t *testing.T) {
		res, err := Reconcile(Table{Header: header}, Table{Header: header, Rows: rows}, 0.5, 0.7)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if !reflect.DeepEqual(res.Added, rows) || len(res.Removed) != 0 {
			t.Errorf("added = %v, removed = %v", res.Added, res.Removed)
		}
	})

	t.Run("empty new", func(t *testing.T) {
		res, err := Reconcile(Table{Header: header, Rows: rows}, Table{Header: header}, 0.5, 0.7)
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if !reflect.DeepEqual(res.Removed, rows) || len(res.Added) != 0 || len(res.Table.Rows) != 0 {
			t.Errorf("removed = %v, added = %v, rows = %v", res.Removed, res.Added, res.Table.Rows)
		}
	})
}

func TestReconcile_SchemaGate(t *testing.T) {
	oldTable := Table{Header: []string{"ID", "Name"}, Rows: []Record{{"1", "a"}}}
	newTable := Table{Header: []string{"ID", "Nmae"}, Rows: []Record{{"1", "a"}}}

	progressCalled := false
	_, err := ReconcileContext(context.Background(), oldTable, newTable, Options{
		OptionThreshold:         0.5,
		AutomaticMergeThreshold: 0.7,
		Progress:                func(int, int) { progressCalled = true },
	})

	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want *SchemaMismatchError", err)
	}
	if mismatch.Index != 1 {
		t.Errorf("Index = %d, want 1", mismatch.Index)
	}
	if progressCalled {
		t.Error("matching ran after a schema mismatch")
	}
}

func TestReconcile_InvalidArguments(t *testing.T) {
	good := Table{Header: []string{"ID"}, Rows: []Record{{"1"}}}

	tests := []struct {
		name     string
		oldTable Table
		newTable Table
		option   float64
		merge    float64
	}{
		{name: "old without header", oldTable: Table{}, newTable: good, option: 0.5, merge: 0.7},
		{name: "new without header", oldTable: good, newTable: Table{}, option: 0.5, merge: 0.7},
		{name: "negative option threshold", oldTable: good, newTable: good, option: -0.1, merge: 0.7},
		{name: "merge threshold above one", oldTable: good, newTable: good, option: 0.5, merge: 1.5},
		{name: "NaN threshold", oldTable: good, newTable: good, option: math.NaN(), merge: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconcile(tt.oldTable, tt.newTable, tt.option, tt.merge)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestReconcileContext_Cancelled(t *testing.T) {
	table := Table{Header: []string{"ID"}, Rows: []Record{{"1"}, {"2"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReconcileContext(ctx, table, table, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.OptionThreshold != 0.5 || opts.AutomaticMergeThreshold != 0.7 {
		t.Errorf("DefaultOptions() = %+v, want 0.5/0.7", opts)
	}
}

package reconcile

import (
	"errors"
	"strings"
	"testing"
)

func TestCompareHeaders(t *testing.T) {
	tests := []struct {
		name       string
		oldHeader  []string
		newHeader  []string
		wantErr    bool
		wantIndex  int
		wantReason string
	}{
		{
			name:      "identical",
			oldHeader: []string{"ID", "Name", "City"},
			newHeader: []string{"ID", "Name", "City"},
		},
		{
			name:      "case and surrounding whitespace ignored",
			oldHeader: []string{"ID", "Name", "City"},
			newHeader: []string{" id", "NAME ", "\tcity"},
		},
		{
			name:       "misspelled column",
			oldHeader:  []string{"ID", "Name", "City"},
			newHeader:  []string{"ID", "Nmae", "City"},
			wantErr:    true,
			wantIndex:  1,
			wantReason: ReasonColumnName,
		},
		{
			name:       "reordered columns",
			oldHeader:  []string{"ID", "Name", "City"},
			newHeader:  []string{"ID", "City", "Name"},
			wantErr:    true,
			wantIndex:  1,
			wantReason: ReasonColumnName,
		},
		{
			name:       "extra column",
			oldHeader:  []string{"ID", "Name"},
			newHeader:  []string{"ID", "Name", "City"},
			wantErr:    true,
			wantIndex:  2,
			wantReason: ReasonColumnCount,
		},
		{
			name:       "missing column",
			oldHeader:  []string{"ID", "Name", "City"},
			newHeader:  []string{"ID"},
			wantErr:    true,
			wantIndex:  1,
			wantReason: ReasonColumnCount,
		},
		{
			name:       "inner whitespace is significant",
			oldHeader:  []string{"ID", "Full Name"},
			newHeader:  []string{"ID", "FullName"},
			wantErr:    true,
			wantIndex:  1,
			wantReason: ReasonColumnName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHeaders(Table{Header: tt.oldHeader}, Table{Header: tt.newHeader})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CompareHeaders() error = %v, want nil", err)
				}
				return
			}

			var mismatch *SchemaMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("CompareHeaders() error = %v, want *SchemaMismatchError", err)
			}
			if mismatch.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", mismatch.Index, tt.wantIndex)
			}
			if mismatch.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", mismatch.Reason, tt.wantReason)
			}
			if len(mismatch.OldHeader) != len(tt.oldHeader) || len(mismatch.NewHeader) != len(tt.newHeader) {
				t.Errorf("error does not carry both headers: %+v", mismatch)
			}
		})
	}
}

func TestSchemaMismatchError_Message(t *testing.T) {
	err := CompareHeaders(
		Table{Header: []string{"ID", "Name", "City"}},
		Table{Header: []string{"ID", "Nmae", "City"}},
	)
	if err == nil {
		t.Fatal("expected error")
	}

	msg := err.Error()
	for _, want := range []string{"column 1", `"Name" vs "Nmae"`, "[ID, Name, City]", "[ID, Nmae, City]"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

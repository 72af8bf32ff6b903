package table

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name       string
		input      []byte
		opts       ReadOptions
		wantHeader []string
		wantRows   []reconcile.Record
	}{
		{
			name:       "basic",
			input:      []byte("ID,Name\n1,Alice\n2,Bob\n"),
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"1", "Alice"}, {"2", "Bob"}},
		},
		{
			name:       "header only",
			input:      []byte("ID,Name\n"),
			wantHeader: []string{"ID", "Name"},
		},
		{
			name:       "BOM stripped",
			input:      append([]byte{0xEF, 0xBB, 0xBF}, []byte("ID,Name\n1,Alice\n")...),
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"1", "Alice"}},
		},
		{
			name:       "invalid UTF-8 replaced",
			input:      []byte("ID,Name\n1,Al\xffce\n"),
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"1", "Al\uFFFDce"}},
		},
		{
			name:       "blank lines skipped",
			input:      []byte("ID,Name\n\n1,Alice\n\n"),
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"1", "Alice"}},
		},
		{
			name:       "quoted fields with commas",
			input:      []byte("ID,Name\n1,\"Smith, Alice\"\n"),
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"1", "Smith, Alice"}},
		},
		{
			name:       "semicolon delimiter",
			input:      []byte("ID;Name\n1;Alice\n"),
			opts:       ReadOptions{Comma: ';'},
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"1", "Alice"}},
		},
		{
			name:       "values kept raw by default",
			input:      []byte("ID,Name\n=\"001\", Alice \n"),
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"=\"001\"", " Alice "}},
		},
		{
			name:       "clean cells",
			input:      []byte("ID,Name\n=\"001\", Alice \n"),
			opts:       ReadOptions{CleanCells: true},
			wantHeader: []string{"ID", "Name"},
			wantRows:   []reconcile.Record{{"001", "Alice"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(bytes.NewReader(tt.input), tt.opts)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got.Header, tt.wantHeader) {
				t.Errorf("Header = %q, want %q", got.Header, tt.wantHeader)
			}
			if !reflect.DeepEqual(got.Rows, tt.wantRows) {
				t.Errorf("Rows = %q, want %q", got.Rows, tt.wantRows)
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    ReadOptions
		wantErr error
		wantMsg string
	}{
		{name: "empty input", input: "", wantErr: ErrEmptyFile},
		{name: "only BOM", input: "\xEF\xBB\xBF", wantErr: ErrEmptyFile},
		{name: "short row", input: "ID,Name\n1,Alice\n2\n", wantErr: ErrInvalidCSV, wantMsg: "line 3"},
		{name: "long row", input: "ID,Name\n1,Alice,extra\n", wantErr: ErrInvalidCSV, wantMsg: "line 2"},
		{name: "too large", input: "ID,Name\n1,Alice\n", opts: ReadOptions{MaxSize: 8}, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  plain  ", want: "plain"},
		{input: `="00123"`, want: "00123"},
		{input: "=42", want: "42"},
		{input: `"quoted"`, want: `"quoted"`},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

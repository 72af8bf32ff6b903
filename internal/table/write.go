package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

// WriteOptions controls how a delimited file is written.
type WriteOptions struct {
	Comma   rune // Field delimiter (default ',')
	UseCRLF bool // Terminate lines with \r\n
}

// Write writes t's header followed by its rows.
func Write(w io.Writer, t reconcile.Table, opts WriteOptions) error {
	return WriteRows(w, t.Header, t.Rows, opts)
}

// WriteRows writes header followed by rows. Used for the added and removed
// review lists, which share the final table's header.
func WriteRows(w io.Writer, header []string, rows []reconcile.Record, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}
	cw.UseCRLF = opts.UseCRLF

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

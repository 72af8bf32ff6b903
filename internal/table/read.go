package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

// DefaultMaxSize is the largest file Read accepts when no limit is given (100MB).
const DefaultMaxSize = 100 * 1024 * 1024

var (
	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("empty file")

	// ErrFileTooLarge is returned when the input exceeds ReadOptions.MaxSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidCSV wraps parse failures and rows whose width differs from the header.
	ErrInvalidCSV = errors.New("invalid csv")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadOptions controls how a delimited file is parsed.
type ReadOptions struct {
	// Comma is the field delimiter (default ',').
	Comma rune

	// MaxSize is the maximum number of bytes read (default DefaultMaxSize).
	MaxSize int64

	// CleanCells strips spreadsheet artifacts from every cell, see CleanCell.
	CleanCells bool
}

// Read parses a delimited file whose first record is the header.
// Blank lines are skipped. A row with a different number of fields than the
// header fails with an error wrapping ErrInvalidCSV that names its line.
func Read(r io.Reader, opts ReadOptions) (reconcile.Table, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return reconcile.Table{}, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > maxSize {
		return reconcile.Table{}, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxSize)
	}

	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err == io.EOF {
		return reconcile.Table{}, ErrEmptyFile
	}
	if err != nil {
		return reconcile.Table{}, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}

	t := reconcile.Table{Header: cleanRow(header, opts.CleanCells)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return reconcile.Table{}, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}
		if len(row) != len(t.Header) {
			line, _ := cr.FieldPos(0)
			return reconcile.Table{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrInvalidCSV, line, len(row), len(t.Header))
		}
		t.Rows = append(t.Rows, reconcile.Record(cleanRow(row, opts.CleanCells)))
	}

	return t, nil
}

func cleanRow(row []string, clean bool) []string {
	if !clean {
		return row
	}
	for i := range row {
		row[i] = CleanCell(row[i])
	}
	return row
}

// CleanCell removes common spreadsheet export artifacts from a cell value:
// surrounding whitespace and an Excel formula wrapper (="value" or =value).
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return s
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.WriteRune(r)
		}
		data = data[size:]
	}

	return buf.Bytes()
}

package main

import (
	"encoding/json"
	"io"
)

// writeJSON encodes v as indented JSON. Cell values are written as-is, so
// '&', '<' and '>' in records are not escaped.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

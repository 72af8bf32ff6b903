// Package table reads and writes the delimited files that reconciliation
// consumes and produces.
//
// Files are loaded fully into memory: a reconcile.Table is an in-memory
// structure and the matcher needs every row anyway. Reading strips a UTF-8
// BOM (common in files saved by Windows spreadsheet tools), replaces invalid
// UTF-8 sequences with U+FFFD and enforces that every row has as many fields
// as the header.
package table

// Command reconcile reconciles two CSV exports of the same entities from the
// command line.
//
//	reconcile run old.csv new.csv --merge-threshold 0.8 --out final.csv
//	reconcile headers old.csv new.csv
//
// run prints a summary and the merged pairs, and optionally writes the final
// table and the added and removed review lists. headers exits non-zero when
// the two files do not share a header.
package main

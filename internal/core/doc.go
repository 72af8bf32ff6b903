// Package core provides the service layer around the reconciliation engine.
//
// The engine itself (package reconcile) is pure and synchronous. This package
// adds what a shared deployment needs and can be used by web handlers, the
// CLI, or tests without modification.
//
// # Runs
//
// [Service.Reconcile] reads the two uploaded tables, reconciles them and
// records a [RunRecord] in the configured [RunStore]:
//
//  1. Thresholds are resolved against the configured defaults and validated
//  2. The run waits for a slot in the [RunLimiter]
//  3. Both files are parsed with the configured size limit
//  4. The engine runs under RECONCILE_TIMEOUT
//  5. The summary is saved, and the full result is cached for download
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - SCH001: Header mismatch
//   - ARG001: Invalid thresholds or inputs
//   - FILE001-FILE005: File errors (size, format, missing, empty)
//   - RUN001-RUN004: Run errors (busy, not found, cancelled, timed out)
//   - DB004-DB005: Database connection errors
package core

package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users quote the code; support staff look it up here.
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Header mismatch: The two files do not have the same columns
//	         Action: Make both files use the same column names in the same order
//	         Patterns: "header mismatch"
//
// # Argument Errors (ARG001-ARG099)
//
//	ARG001 - Invalid argument: A threshold or input is out of range
//	         Action: Use thresholds between 0 and 1 and include a header row
//	         Patterns: "invalid argument"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Patterns: "file too large"
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Patterns: "invalid csv"
//	FILE004 - No file: A file was not provided
//	          Patterns: "no file provided"
//	FILE005 - Empty file: The file is empty
//	          Patterns: "empty file"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - System busy: Too many reconciliations in progress
//	         Patterns: "too many concurrent runs"
//	RUN002 - Run not found: The run does not exist or its results expired
//	         Patterns: "run not found"
//	RUN003 - Run cancelled
//	         Patterns: "run cancelled", "context canceled"
//	RUN004 - Run timed out
//	         Patterns: "run timed out", "context deadline exceeded"
//
// # Database Errors (DB004-DB005)
//
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check application logs for the
// technical error.
//
// Typed errors (the schema mismatch and the sentinels above) are matched
// with errors.As and errors.Is first. Patterns are a fallback for untyped
// errors, matched case-insensitively with strings.Contains; the first match
// wins, so specific patterns come before general ones.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/reconcile/internal/reconcile"
	"github.com/JonMunkholm/reconcile/internal/table"
)

// Sentinel errors raised by the service.
var (
	ErrNoFile       = errors.New("no file provided")
	ErrRunNotFound  = errors.New("run not found")
	ErrRunCancelled = errors.New("run cancelled")
	ErrRunTimeout   = errors.New("run timed out")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Schema and argument errors
	// =========================================================================
	{
		pattern: "header mismatch",
		msg: UserMessage{
			Message: "The two files do not have the same columns",
			Action:  "Make both files use the same column names in the same order",
			Code:    "SCH001",
		},
	},
	{
		pattern: "invalid argument",
		msg: UserMessage{
			Message: "A threshold or input is out of range",
			Action:  "Use thresholds between 0 and 1 and include a header row",
			Code:    "ARG001",
		},
	},

	// =========================================================================
	// File errors
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "A file was not provided",
			Action:  "Select both the existing and the imported CSV file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Run errors
	// =========================================================================
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "Too many reconciliations in progress",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "Run not found",
			Action:  "The run may have expired. Start a new reconciliation",
			Code:    "RUN002",
		},
	},
	{
		pattern: "run cancelled",
		msg: UserMessage{
			Message: "Reconciliation was cancelled",
			Action:  "Please try again",
			Code:    "RUN003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Reconciliation was cancelled",
			Action:  "Please try again",
			Code:    "RUN003",
		},
	},
	{
		pattern: "run timed out",
		msg: UserMessage{
			Message: "Reconciliation timed out",
			Action:  "Try smaller files or raise RECONCILE_TIMEOUT",
			Code:    "RUN004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Reconciliation timed out",
			Action:  "Try smaller files or raise RECONCILE_TIMEOUT",
			Code:    "RUN004",
		},
	},

	// =========================================================================
	// Database connection errors
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// typedErrors maps sentinel errors to codes. They are checked before the
// text patterns because messages can carry client-supplied text such as
// file names.
var typedErrors = []struct {
	target error
	code   string
}{
	{reconcile.ErrInvalidArgument, "ARG001"},
	{table.ErrFileTooLarge, "FILE001"},
	{table.ErrInvalidCSV, "FILE002"},
	{ErrNoFile, "FILE004"},
	{table.ErrEmptyFile, "FILE005"},
	{ErrTooManyRuns, "RUN001"},
	{ErrRunNotFound, "RUN002"},
	{ErrRunTimeout, "RUN004"},
	{ErrRunCancelled, "RUN003"},
	{context.DeadlineExceeded, "RUN004"},
	{context.Canceled, "RUN003"},
}

// MapError converts a technical error to a user-friendly message.
//
// A *reconcile.SchemaMismatchError or a known sentinel anywhere in the chain
// decides the code. Text patterns are only consulted for untyped errors,
// such as those from the database driver. If nothing matches, the ERR000
// fallback is returned.
//
// Example:
//
//	err := fmt.Errorf("old file: %w", table.ErrEmptyFile)
//	msg := MapError(err)
//	// msg.Code == "FILE005"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var mismatch *reconcile.SchemaMismatchError
	if errors.As(err, &mismatch) {
		return messageForCode("SCH001")
	}
	for _, te := range typedErrors {
		if errors.Is(err, te.target) {
			return messageForCode(te.code)
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// messageForCode returns the first message registered for code.
func messageForCode(code string) UserMessage {
	for _, ep := range errorPatterns {
		if ep.msg.Code == code {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

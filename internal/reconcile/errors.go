package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a table or threshold is unusable.
// It is always wrapped with a description of what was wrong.
var ErrInvalidArgument = errors.New("invalid argument")

// Mismatch reasons reported by SchemaMismatchError.
const (
	ReasonColumnCount = "column count differs"
	ReasonColumnName  = "column name differs"
)

// SchemaMismatchError reports that two tables do not share the same ordered
// column schema. Both headers are kept so the caller can show them side by side.
type SchemaMismatchError struct {
	OldHeader []string
	NewHeader []string
	Index     int    // First offending column position
	Reason    string // ReasonColumnCount or ReasonColumnName
}

func (e *SchemaMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "header mismatch: %s at column %d", e.Reason, e.Index)
	if e.Reason == ReasonColumnName {
		fmt.Fprintf(&b, " (%q vs %q)", e.OldHeader[e.Index], e.NewHeader[e.Index])
	}
	fmt.Fprintf(&b, "; old header [%s], new header [%s]",
		strings.Join(e.OldHeader, ", "), strings.Join(e.NewHeader, ", "))
	return b.String()
}

// invalidArgument wraps ErrInvalidArgument with a formatted message.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

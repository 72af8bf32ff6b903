package reconcile

import "strings"

// CompareHeaders verifies that oldTable and newTable have the same ordered columns.
//
// Column names are compared after lowercasing and trimming surrounding
// whitespace. The first difference aborts with a *SchemaMismatchError naming
// the column position; a length difference is reported at the first position
// past the shorter header.
func CompareHeaders(oldTable, newTable Table) error {
	if len(oldTable.Header) != len(newTable.Header) {
		return &SchemaMismatchError{
			OldHeader: oldTable.Header,
			NewHeader: newTable.Header,
			Index:     min(len(oldTable.Header), len(newTable.Header)),
			Reason:    ReasonColumnCount,
		}
	}

	for i := range oldTable.Header {
		if normalizeColumn(oldTable.Header[i]) != normalizeColumn(newTable.Header[i]) {
			return &SchemaMismatchError{
				OldHeader: oldTable.Header,
				NewHeader: newTable.Header,
				Index:     i,
				Reason:    ReasonColumnName,
			}
		}
	}

	return nil
}

func normalizeColumn(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

package engine

import (
	"fmt"
	"strings"
)

// SearchField selects which record text a query is scored against.
type SearchField int

const (
	FieldLabel     SearchField = iota // record label
	FieldHierarchy                    // full hierarchy path
	FieldBoth                         // label + " " + hierarchy
)

var fieldNames = [...]string{
	FieldLabel:     "label",
	FieldHierarchy: "hierarchy",
	FieldBoth:      "both",
}

// ParseSearchField resolves "label", "hierarchy" or "both" (any case).
// Anything else is ErrInvalidArgument; there is no default.
func ParseSearchField(s string) (SearchField, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, n := range fieldNames {
		if n == name {
			return SearchField(f), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown search field %q (want label, hierarchy or both)", ErrInvalidArgument, s)
}

// Valid reports whether f is one of the defined fields.
func (f SearchField) Valid() bool {
	return f >= FieldLabel && f <= FieldBoth
}

func (f SearchField) String() string {
	if !f.Valid() {
		return fmt.Sprintf("SearchField(%d)", int(f))
	}
	return fieldNames[f]
}

// text returns the unfolded searched text for a record.
func (f SearchField) text(label, hierarchy string) string {
	switch f {
	case FieldHierarchy:
		return hierarchy
	case FieldBoth:
		return label + " " + hierarchy
	default:
		return label
	}
}

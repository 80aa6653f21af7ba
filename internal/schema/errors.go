package schema

import (
	"fmt"
	"strings"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// FieldError is one failed field of a record.
type FieldError struct {
	Name   string
	Reason string
}

// FieldErrors collects every field failure of one record, in schema order,
// together with the offending raw record for diagnostics.
type FieldErrors struct {
	Record model.RawRecord
	Fields []FieldError
}

func (e *FieldErrors) add(name, reason string) {
	e.Fields = append(e.Fields, FieldError{Name: name, Reason: reason})
}

func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Name, fe.Reason))
	}
	return fmt.Sprintf("validation failed (%s) for record %v", strings.Join(parts, "; "), e.Record)
}

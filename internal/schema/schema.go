// Package schema implements the declarative field validation engine shared by
// all source converters. A Schema is an ordered list of field descriptors
// consumed by a single generic Validate function; there is no per-source
// validation code beyond the descriptors themselves.
package schema

import (
	"fmt"
	"time"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// Kind is the expected type of a field value after coercion.
type Kind int

const (
	String Kind = iota
	Int
	Decimal
	Bool
	Enum
	Time
	StringList
)

// Field describes one field of a raw provider record.
type Field struct {
	// Name is the key in the raw record.
	Name string
	Kind Kind

	// Required fields must be present and non-null after coercion.
	Required bool

	// EmptyAsNil treats the empty string like null. Spreadsheet and report
	// derived sources emit "" where JSON APIs emit null, so plain null
	// handling is not enough for them.
	EmptyAsNil bool

	// Default is stored when the field is absent. Only consulted for
	// non-required fields.
	Default any

	// Enum is the allowed value set for Kind Enum.
	Enum []string

	// MinInt/MaxInt bound Int fields when non-nil.
	MinInt *int
	MaxInt *int

	// BoolMap maps lowercased string forms onto booleans for Kind Bool,
	// e.g. {"ja": true, "nein": false}. When nil, only native booleans and
	// "true"/"false" strings are accepted.
	BoolMap map[string]bool

	// TimeLayouts are tried in order for Kind Time string values.
	// Defaults to RFC 3339.
	TimeLayouts []string

	// Convert, when set, replaces the builtin coercion for this field. It
	// receives the raw value and must return a value matching Kind.
	Convert func(any) (any, error)
}

// Schema is an ordered collection of field descriptors.
type Schema struct {
	fields []Field
}

// New builds a Schema from field descriptors. Order is preserved in error
// reporting.
func New(fields ...Field) Schema {
	return Schema{fields: fields}
}

// Validate coerces and checks every schema field of raw. It never stops at
// the first problem: all field failures are accumulated into one *FieldErrors
// so a source operator sees the full diagnosis for a record at once.
// Validate is pure; raw is not modified.
func (s Schema) Validate(raw model.RawRecord) (Values, error) {
	values := Values{m: make(map[string]any, len(s.fields))}
	ferrs := &FieldErrors{Record: raw}

	for _, field := range s.fields {
		value, present := raw[field.Name]
		if present {
			present = !isNull(field, value)
		}

		if !present {
			if field.Required {
				ferrs.add(field.Name, "required field is missing or null")
				continue
			}
			if field.Default != nil {
				values.m[field.Name] = field.Default
			}
			continue
		}

		coerced, err := coerce(field, value)
		if err != nil {
			ferrs.add(field.Name, err.Error())
			continue
		}
		values.m[field.Name] = coerced
	}

	if len(ferrs.Fields) > 0 {
		return Values{}, ferrs
	}
	return values, nil
}

// isNull reports whether value counts as absent for this field.
func isNull(field Field, value any) bool {
	if value == nil {
		return true
	}
	if field.EmptyAsNil {
		if s, ok := value.(string); ok && s == "" {
			return true
		}
	}
	return false
}

func coerce(field Field, value any) (any, error) {
	if field.Convert != nil {
		return field.Convert(value)
	}

	switch field.Kind {
	case String:
		return coerceString(value)
	case Int:
		return coerceInt(field, value)
	case Decimal:
		return coerceDecimal(value)
	case Bool:
		return coerceBool(field, value)
	case Enum:
		return coerceEnum(field, value)
	case Time:
		return coerceTime(field, value)
	case StringList:
		return coerceStringList(value)
	default:
		return nil, fmt.Errorf("unknown field kind %d", field.Kind)
	}
}

func defaultTimeLayouts() []string {
	return []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
}

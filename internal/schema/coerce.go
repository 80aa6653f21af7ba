package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// coerceString accepts strings and renders numbers as strings. Some sources
// deliver numeric identifiers where the schema expects text.
func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return nil, fmt.Errorf("expected string, got %T", value)
	}
}

// coerceInt accepts integers, integral floats, json.Number, and numeric
// strings, then enforces the declared bounds.
func coerceInt(field Field, value any) (any, error) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("expected integer, got fractional number %v", v)
		}
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", v.String())
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", v)
		}
		n = i
	default:
		return nil, fmt.Errorf("expected integer, got %T", value)
	}

	if field.MinInt != nil && n < *field.MinInt {
		return nil, fmt.Errorf("value %d below minimum %d", n, *field.MinInt)
	}
	if field.MaxInt != nil && n > *field.MaxInt {
		return nil, fmt.Errorf("value %d above maximum %d", n, *field.MaxInt)
	}
	return n, nil
}

// coerceDecimal accepts numbers and numeric strings. String input keeps its
// exact decimal representation, float input converts exactly.
func coerceDecimal(value any) (any, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("expected decimal number, got %q", v)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, fmt.Errorf("expected decimal number, got %q", v.String())
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return nil, fmt.Errorf("expected decimal number, got %T", value)
	}
}

func coerceBool(field Field, value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if field.BoolMap != nil {
			if b, ok := field.BoolMap[s]; ok {
				return b, nil
			}
			return nil, fmt.Errorf("unmapped boolean value %q", v)
		}
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("expected boolean, got %q", v)
	default:
		return nil, fmt.Errorf("expected boolean, got %T", value)
	}
}

func coerceEnum(field Field, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected one of %s, got %T", strings.Join(field.Enum, "|"), value)
	}
	for _, allowed := range field.Enum {
		if s == allowed {
			return s, nil
		}
	}
	return nil, fmt.Errorf("value %q not in allowed set %s", s, strings.Join(field.Enum, "|"))
}

// coerceTime parses string timestamps with the field's layouts and normalizes
// everything to UTC with second precision, so repeated imports of the same
// payload compare equal.
func coerceTime(field Field, value any) (any, error) {
	layouts := field.TimeLayouts
	if len(layouts) == 0 {
		layouts = defaultTimeLayouts()
	}

	switch v := value.(type) {
	case time.Time:
		return v.UTC().Truncate(time.Second), nil
	case string:
		for _, layout := range layouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t.UTC().Truncate(time.Second), nil
			}
		}
		return nil, fmt.Errorf("unparseable timestamp %q", v)
	default:
		return nil, fmt.Errorf("expected timestamp, got %T", value)
	}
}

func coerceStringList(value any) (any, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list element %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", value)
	}
}

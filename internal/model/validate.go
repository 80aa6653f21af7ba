package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate is shared by all batches; validator instances cache struct
// metadata and are safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Expose decimal coordinates to the builtin latitude/longitude/min/max
	// validators as float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterStructValidation(staticSiteStructLevel, StaticSite{})

	return v
}

// staticSiteStructLevel rejects the (0, 0) null-island coordinate pair, which
// in practice always means a source failed to fill in its geodata.
func staticSiteStructLevel(sl validator.StructLevel) {
	site := sl.Current().Interface().(StaticSite)
	if site.Lat.IsZero() && site.Lon.IsZero() {
		sl.ReportError(site.Lat, "Lat", "lat", "lat_lon_zero", "")
	}
}

// ValidateStatic checks a canonical static record against the schema
// constraints. All violated constraints are reported in one error.
func ValidateStatic(site StaticSite) error {
	return describeErrors(validate.Struct(site))
}

// ValidateRealtime checks a canonical realtime record.
func ValidateRealtime(site RealtimeSite) error {
	return describeErrors(validate.Struct(site))
}

// describeErrors flattens validator.ValidationErrors into a single readable
// message listing every failed field.
func describeErrors(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid record: %s", strings.Join(parts, "; "))
}

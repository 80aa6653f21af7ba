// Package ellwangen converts the car parking spreadsheet pushed by the city
// of Ellwangen. The workbook has one sheet with a German header row.
package ellwangen

import (
	"fmt"
	"strings"
	"time"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/geo"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/schema"
)

var germanBool = map[string]bool{"ja": true, "nein": false}

// columns maps normalized spreadsheet headers to schema field names.
var columns = map[string]string{
	"id":                  "uid",
	"name":                "name",
	"art der anlage":      "type",
	"breitengrad":         "lat",
	"laengengrad":         "lon",
	"anzahl stellplaetze": "capacity",
	"anzahl carsharing":   "capacity_carsharing",
	"anzahl frauen":       "capacity_woman",
	"anzahl behinderte":   "capacity_disabled",
	"gebuehrenpflichtig":  "has_fee",
	"24/7 geoeffnet":      "open_all_day",
	"oeffnungszeiten":     "opening_hours",
	"betreiber":           "operator_name",
	"adresse":             "address",
	"max. parkdauer":      "max_stay",
}

var recordSchema = schema.New(
	schema.Field{Name: "uid", Kind: schema.String, Required: true},
	schema.Field{Name: "name", Kind: schema.String, Required: true},
	schema.Field{Name: "type", Kind: schema.String, Required: true},
	schema.Field{Name: "lat", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "lon", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "capacity", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "capacity_carsharing", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "capacity_woman", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "capacity_disabled", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "has_fee", Kind: schema.Bool, EmptyAsNil: true, BoolMap: germanBool},
	schema.Field{Name: "open_all_day", Kind: schema.Bool, EmptyAsNil: true, BoolMap: germanBool},
	schema.Field{Name: "opening_hours", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "operator_name", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "address", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "max_stay", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
)

// Converter implements converter.PushConverter.
type Converter struct {
	cfg    *config.Config
	client fetcher.Client
}

// New creates the Ellwangen converter.
func New(cfg *config.Config, client fetcher.Client) *Converter {
	return &Converter{cfg: cfg, client: client}
}

// Info implements converter.PushConverter.
func (c *Converter) Info() converter.SourceInfo {
	return converter.SourceInfo{
		UID:                    "ellwangen",
		Name:                   "Stadt Ellwangen: Parkplätze",
		PublicURL:              "https://www.ellwangen.de",
		AttributionContributor: "Stadt Ellwangen",
		HasRealtimeData:        false,
	}
}

// StaticSitesFromPayload implements converter.PushConverter.
func (c *Converter) StaticSitesFromPayload(payload []byte) ([]model.StaticSite, []model.ImportError, error) {
	info := c.Info()
	header, rows, err := fetcher.ReadXLSX(payload, fetcher.XLSXOptions{SheetIndex: 0})
	if err != nil {
		return nil, nil, &model.FetchError{SourceUID: info.UID, Err: err}
	}

	indexes := map[string]int{}
	for i, name := range header {
		if field, ok := columns[normalizeHeader(name)]; ok {
			indexes[field] = i
		}
	}
	for _, required := range []string{"uid", "name", "type", "lat", "lon", "capacity"} {
		if _, ok := indexes[required]; !ok {
			return nil, nil, &model.FetchError{
				SourceUID: info.UID,
				Err:       fmt.Errorf("missing column for %q", required),
			}
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	sites := []model.StaticSite{}
	errs := []model.ImportError{}

	for _, row := range rows {
		raw := model.RawRecord{}
		for field, i := range indexes {
			if i < len(row) {
				raw[field] = row[i]
			}
		}

		values, err := recordSchema.Validate(raw)
		if err != nil {
			errs = append(errs, model.NewImportError(info.UID, fmt.Sprint(raw["uid"]), err.Error()))
			continue
		}

		sites = append(sites, mapRow(values, now))
	}
	return sites, errs, nil
}

// normalizeHeader folds a spreadsheet header into the lookup form: lowercase
// with umlauts transliterated, so cosmetic edits by the city don't break the
// mapping.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
	return replacer.Replace(s)
}

func mapRow(values schema.Values, now time.Time) model.StaticSite {
	site := model.StaticSite{
		UID:                 values.String("uid"),
		Name:                values.String("name"),
		Purpose:             model.PurposeCar,
		Type:                siteType(values.String("type")),
		Lat:                 geo.Quantize(values.Decimal("lat")),
		Lon:                 geo.Quantize(values.Decimal("lon")),
		Capacity:            model.Ptr(values.Int("capacity")),
		CapacityCarsharing:  values.IntPtr("capacity_carsharing"),
		CapacityWoman:       values.IntPtr("capacity_woman"),
		CapacityDisabled:    values.IntPtr("capacity_disabled"),
		HasFee:              values.BoolPtr("has_fee"),
		OperatorName:        values.StringPtr("operator_name"),
		Address:             values.StringPtr("address"),
		MaxStay:             values.IntPtr("max_stay"),
		OpeningHours:        values.StringPtr("opening_hours"),
		HasRealtimeData:     false,
		StaticDataUpdatedAt: now,
	}
	// A 24/7 flag wins over whatever is in the free-text column.
	if open := values.BoolPtr("open_all_day"); open != nil && *open {
		site.OpeningHours = model.Ptr("24/7")
	}
	return site
}

func siteType(label string) model.SiteType {
	switch label {
	case "Parkhaus":
		return model.SiteTypeCarPark
	case "Tiefgarage":
		return model.SiteTypeUnderground
	case "Parkplatz":
		return model.SiteTypeOffStreetParkingGround
	default:
		return model.SiteTypeOffStreetParkingGround
	}
}

// Package bfrk converts parking data from the "Barrierefreie
// Reisekette" survey of public transport stops in Baden-Württemberg.
// Data arrives as pushed CSV exports in Latin-1, one variant for bike
// parking at stops and one for park-and-ride car parking.
package bfrk

import (
	"fmt"
	"time"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/geo"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/schema"
)

var germanBool = map[string]bool{"ja": true, "nein": false}

var recordSchema = schema.New(
	schema.Field{Name: "uid", Kind: schema.String, Required: true},
	schema.Field{Name: "name", Kind: schema.String, Required: true},
	schema.Field{Name: "lat", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "lon", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "capacity", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "is_covered", Kind: schema.Bool, EmptyAsNil: true, BoolMap: germanBool},
	schema.Field{Name: "has_lighting", Kind: schema.Bool, EmptyAsNil: true, BoolMap: germanBool},
	schema.Field{Name: "has_fee", Kind: schema.Bool, EmptyAsNil: true, BoolMap: germanBool},
	schema.Field{Name: "photo_url", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "related_location", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "type", Kind: schema.String, EmptyAsNil: true},
)

// Variant describes one of the two survey exports.
type Variant struct {
	UID     string
	Name    string
	Purpose model.Purpose
	// columns maps CSV header names to schema field names. Columns not
	// listed here are ignored.
	columns map[string]string
}

// Variants returns the bike and car exports.
func Variants() []Variant {
	return []Variant{
		{
			UID:     "bfrk_bw_bike",
			Name:    "BFRK Baden-Württemberg: Fahrrad-Abstellanlagen an Haltestellen",
			Purpose: model.PurposeBike,
			columns: map[string]string{
				"ID":               "uid",
				"HST_Name":         "name",
				"Latitude":         "lat",
				"Longitude":        "lon",
				"Stellplatzanzahl": "capacity",
				"ueberdacht":       "is_covered",
				"beleuchtet":       "has_lighting",
				"kostenpflichtig":  "has_fee",
				"Anlage_Foto":      "photo_url",
				"HST_DHID":         "related_location",
				"Anlagentyp":       "type",
			},
		},
		{
			UID:     "bfrk_bw_car",
			Name:    "BFRK Baden-Württemberg: Park-and-Ride an Haltestellen",
			Purpose: model.PurposeCar,
			columns: map[string]string{
				"ID":               "uid",
				"HST_Name":         "name",
				"Latitude":         "lat",
				"Longitude":        "lon",
				"Stellplatzanzahl": "capacity",
				"beleuchtet":       "has_lighting",
				"kostenpflichtig":  "has_fee",
				"Anlage_Foto":      "photo_url",
				"HST_DHID":         "related_location",
				"Parkplatzart":     "type",
			},
		},
	}
}

// Converter implements converter.PushConverter for one survey variant.
type Converter struct {
	variant Variant
	cfg     *config.Config
	client  fetcher.Client
}

// New creates a BFRK converter for the given variant.
func New(variant Variant, cfg *config.Config, client fetcher.Client) *Converter {
	return &Converter{variant: variant, cfg: cfg, client: client}
}

// Info implements converter.PushConverter.
func (c *Converter) Info() converter.SourceInfo {
	return converter.SourceInfo{
		UID:                    c.variant.UID,
		Name:                   c.variant.Name,
		PublicURL:              "https://www.mobidata-bw.de",
		AttributionContributor: "Nahverkehrsgesellschaft Baden-Württemberg mbH",
		HasRealtimeData:        false,
	}
}

// StaticSitesFromPayload implements converter.PushConverter.
func (c *Converter) StaticSitesFromPayload(payload []byte) ([]model.StaticSite, []model.ImportError, error) {
	info := c.Info()
	header, rows, err := fetcher.ReadCSV(payload, fetcher.CSVOptions{Delimiter: ';', Latin1: true})
	if err != nil {
		return nil, nil, &model.FetchError{SourceUID: info.UID, Err: err}
	}

	// Resolve the column index of every mapped header up front so a
	// renamed column fails the whole batch instead of every row.
	indexes := map[string]int{}
	for i, name := range header {
		if field, ok := c.variant.columns[name]; ok {
			indexes[field] = i
		}
	}
	for _, required := range []string{"uid", "name", "lat", "lon", "capacity"} {
		if _, ok := indexes[required]; !ok {
			return nil, nil, &model.FetchError{
				SourceUID: info.UID,
				Err:       fmt.Errorf("missing csv column for %q", required),
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

		sites = append(sites, c.mapRow(values, now))
	}
	return sites, errs, nil
}

func (c *Converter) mapRow(values schema.Values, now time.Time) model.StaticSite {
	return model.StaticSite{
		UID:                 values.String("uid"),
		Name:                values.String("name"),
		Purpose:             c.variant.Purpose,
		Type:                c.siteType(values.String("type")),
		Lat:                 geo.Quantize(values.Decimal("lat")),
		Lon:                 geo.Quantize(values.Decimal("lon")),
		Capacity:            model.Ptr(values.Int("capacity")),
		IsCovered:           values.BoolPtr("is_covered"),
		HasLighting:         values.BoolPtr("has_lighting"),
		HasFee:              values.BoolPtr("has_fee"),
		PhotoURL:            values.StringPtr("photo_url"),
		RelatedLocation:     values.StringPtr("related_location"),
		HasRealtimeData:     false,
		StaticDataUpdatedAt: now,
	}
}

func (c *Converter) siteType(label string) model.SiteType {
	if c.variant.Purpose == model.PurposeCar {
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
	switch label {
	case "Fahrradbox", "Sammelschließanlage":
		return model.SiteTypeLockers
	case "Doppelstockparker":
		return model.SiteTypeTwoTier
	case "Anlehnbügel":
		return model.SiteTypeStands
	default:
		return model.SiteTypeGenericBike
	}
}

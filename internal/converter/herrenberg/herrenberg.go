// Package herrenberg converts bike parking facilities published by the city
// of Herrenberg as a WGS84 GeoJSON feed.
package herrenberg

import (
	"context"
	"strconv"
	"time"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/geo"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/schema"
)

const dateSurveyLayout = "2006-01-02"

var propertiesSchema = schema.New(
	schema.Field{Name: "id", Kind: schema.Int, Required: true},
	schema.Field{Name: "name", Kind: schema.String, Required: true},
	schema.Field{Name: "type", Kind: schema.String, Required: true},
	schema.Field{Name: "count", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "count_chargers", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "covered", Kind: schema.Bool, EmptyAsNil: true},
	schema.Field{Name: "lighting", Kind: schema.Bool, EmptyAsNil: true},
	schema.Field{Name: "fee", Kind: schema.Bool, EmptyAsNil: true},
	schema.Field{Name: "operator", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "description", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "date_survey", Kind: schema.Time, EmptyAsNil: true, TimeLayouts: []string{dateSurveyLayout}},
)

// Converter implements converter.PullConverter.
type Converter struct {
	cfg    *config.Config
	client fetcher.Client
}

// New creates the Herrenberg converter.
func New(cfg *config.Config, client fetcher.Client) *Converter {
	return &Converter{cfg: cfg, client: client}
}

// Info implements converter.PullConverter.
func (c *Converter) Info() converter.SourceInfo {
	return converter.SourceInfo{
		UID:                    "herrenberg_bike",
		Name:                   "Stadt Herrenberg: Fahrrad-Abstellanlagen",
		PublicURL:              "https://www.herrenberg.de",
		SourceURL:              "https://daten.herrenberg.de/dataset/fahrrad-abstellanlagen/bikeparking.geojson",
		AttributionContributor: "Stadt Herrenberg",
		HasRealtimeData:        false,
	}
}

// StaticSites implements converter.PullConverter.
func (c *Converter) StaticSites(ctx context.Context) ([]model.StaticSite, []model.ImportError, error) {
	info := c.Info()
	body, err := c.client.Get(ctx, info.SourceURL)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	fc, err := geo.DecodeFeatureCollection(body)
	if err != nil {
		return nil, nil, &model.FetchError{SourceUID: info.UID, URL: info.SourceURL, Err: err}
	}

	now := time.Now().UTC().Truncate(time.Second)
	sites := []model.StaticSite{}
	errs := []model.ImportError{}

	for _, feature := range fc.Features {
		lon, lat, err := geo.PointCoords(feature)
		if err != nil {
			errs = append(errs, model.NewImportError(info.UID, feature.ID, err.Error()))
			continue
		}

		values, err := propertiesSchema.Validate(model.RawRecord(feature.Properties))
		if err != nil {
			errs = append(errs, model.NewImportError(info.UID, feature.ID, err.Error()))
			continue
		}

		sites = append(sites, mapFeature(values, lon, lat, now))
	}
	return sites, errs, nil
}

func mapFeature(values schema.Values, lon, lat float64, now time.Time) model.StaticSite {
	updatedAt := now
	if t := values.Time("date_survey"); !t.IsZero() {
		updatedAt = t
	}

	return model.StaticSite{
		UID:                 strconv.Itoa(values.Int("id")),
		Name:                values.String("name"),
		Purpose:             model.PurposeBike,
		Type:                siteType(values.String("type")),
		Lat:                 geo.QuantizeFloat(lat),
		Lon:                 geo.QuantizeFloat(lon),
		OperatorName:        values.StringPtr("operator"),
		Description:         values.StringPtr("description"),
		Capacity:            model.Ptr(values.Int("count")),
		CapacityCharging:    values.IntPtr("count_chargers"),
		IsCovered:           values.BoolPtr("covered"),
		HasLighting:         values.BoolPtr("lighting"),
		HasFee:              values.BoolPtr("fee"),
		HasRealtimeData:     false,
		StaticDataUpdatedAt: updatedAt,
	}
}

// siteType maps the feed's German facility labels. Anything the city adds
// later falls back to the generic bike type.
func siteType(label string) model.SiteType {
	switch label {
	case "Anlehnbügel":
		return model.SiteTypeStands
	case "Fahrradbox", "Fahrradboxen":
		return model.SiteTypeLockers
	case "Vorderradhalter":
		return model.SiteTypeWallLoops
	case "Doppelstockparker":
		return model.SiteTypeTwoTier
	case "Fahrradparkhaus":
		return model.SiteTypeBuilding
	case "Sammelanlage", "Fahrradsammelanlage":
		return model.SiteTypeShed
	default:
		return model.SiteTypeGenericBike
	}
}

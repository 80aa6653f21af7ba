// Package a81pm converts the truck parking API covering rest areas along the
// A81 motorway. The API requires a bearer token and serves both the static
// facility list and realtime occupancy from the same endpoint.
package a81pm

import (
	"context"
	"time"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/geo"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/schema"
)

const tokenKey = "a81_p_m.token"

var siteSchema = schema.New(
	schema.Field{Name: "id", Kind: schema.String, Required: true},
	schema.Field{Name: "name", Kind: schema.String, Required: true},
	schema.Field{Name: "latitude", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "longitude", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "capacity", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "free", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "state", Kind: schema.Enum, EmptyAsNil: true, Enum: []string{"open", "closed", "unknown"}},
	schema.Field{Name: "operator", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "updated", Kind: schema.Time, EmptyAsNil: true, TimeLayouts: []string{time.RFC3339}},
)

// Converter implements converter.RealtimePullConverter.
type Converter struct {
	cfg    *config.Config
	client fetcher.Client
}

// New creates the A81 converter.
func New(cfg *config.Config, client fetcher.Client) *Converter {
	return &Converter{cfg: cfg, client: client}
}

// Info implements converter.RealtimePullConverter.
func (c *Converter) Info() converter.SourceInfo {
	return converter.SourceInfo{
		UID:                    "a81_p_m",
		Name:                   "A81: LKW-Parkplätze",
		PublicURL:              "https://www.svz-bw.de",
		SourceURL:              "https://api.parken.a81.de/v1/sites",
		AttributionContributor: "Straßenverkehrszentrale Baden-Württemberg",
		HasRealtimeData:        true,
		RequiredConfigKeys:     []string{tokenKey},
	}
}

func (c *Converter) fetch(ctx context.Context) ([]schema.Values, []model.ImportError, error) {
	info := c.Info()
	body, err := c.client.GetAuth(ctx, info.SourceURL, c.cfg.Get(tokenKey))
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	records, err := fetcher.DecodeRawArray(body)
	if err != nil {
		return nil, nil, &model.FetchError{SourceUID: info.UID, URL: info.SourceURL, Err: err}
	}

	parsed := []schema.Values{}
	errs := []model.ImportError{}
	for _, record := range records {
		values, err := siteSchema.Validate(record)
		if err != nil {
			errs = append(errs, model.NewImportError(info.UID, record.StringOr("id", ""), err.Error()))
			continue
		}
		parsed = append(parsed, values)
	}
	return parsed, errs, nil
}

// StaticSites implements converter.RealtimePullConverter.
func (c *Converter) StaticSites(ctx context.Context) ([]model.StaticSite, []model.ImportError, error) {
	parsed, errs, err := c.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	sites := make([]model.StaticSite, 0, len(parsed))
	for _, values := range parsed {
		sites = append(sites, model.StaticSite{
			UID:                 values.String("id"),
			Name:                values.String("name"),
			Purpose:             model.PurposeCar,
			Type:                model.SiteTypeOffStreetParkingGround,
			Lat:                 geo.Quantize(values.Decimal("latitude")),
			Lon:                 geo.Quantize(values.Decimal("longitude")),
			OperatorName:        values.StringPtr("operator"),
			Capacity:            model.Ptr(values.Int("capacity")),
			HasRealtimeData:     true,
			StaticDataUpdatedAt: now,
		})
	}
	return sites, errs, nil
}

// RealtimeSites implements converter.RealtimePullConverter.
func (c *Converter) RealtimeSites(ctx context.Context) ([]model.RealtimeSite, []model.ImportError, error) {
	parsed, errs, err := c.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	sites := make([]model.RealtimeSite, 0, len(parsed))
	for _, values := range parsed {
		updatedAt := now
		if t := values.Time("updated"); !t.IsZero() {
			updatedAt = t
		}
		sites = append(sites, model.RealtimeSite{
			UID:                   values.String("id"),
			OpeningStatus:         openingStatus(values.String("state")),
			Capacity:              model.Ptr(values.Int("capacity")),
			FreeCapacity:          values.IntPtr("free"),
			RealtimeDataUpdatedAt: updatedAt,
		})
	}
	return sites, errs, nil
}

func openingStatus(state string) model.OpeningStatus {
	switch state {
	case "open":
		return model.OpeningStatusOpen
	case "closed":
		return model.OpeningStatusClosed
	default:
		return model.OpeningStatusUnknown
	}
}

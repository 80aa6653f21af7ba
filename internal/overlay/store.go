// Package overlay loads the community-maintained geodata collections that
// supplement primary source data, and merges them into canonical records.
//
// Overlay collections are GeoJSON FeatureCollections published per source at
// a static, versioned URL (or mirrored into a local directory). They share
// the primary source's identifier space; merging only ever fills fields the
// primary data left empty.
package overlay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/geo"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/schema"
)

// featureSchema validates the properties of one overlay feature. Everything
// except the identifier is optional: overlay data exists to fill gaps, not to
// stand alone.
var featureSchema = schema.New(
	schema.Field{Name: "uid", Kind: schema.String, Required: true},
	schema.Field{Name: "name", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "type", Kind: schema.Enum, EmptyAsNil: true, Enum: []string{
		"ON_STREET", "OFF_STREET_PARKING_GROUND", "UNDERGROUND", "CAR_PARK",
		"GENERIC_BIKE", "WALL_LOOPS", "SAFE_WALL_LOOPS", "STANDS", "LOCKERS",
		"SHED", "TWO_TIER", "BUILDING", "FLOOR", "LOCKBOX", "OTHER",
	}},
	schema.Field{Name: "operator_name", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "address", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "description", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "public_url", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "photo_url", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "related_location", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "capacity", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "capacity_charging", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "capacity_disabled", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "max_stay", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "has_fee", Kind: schema.Bool, EmptyAsNil: true},
	schema.Field{Name: "is_covered", Kind: schema.Bool, EmptyAsNil: true},
	schema.Field{Name: "has_lighting", Kind: schema.Bool, EmptyAsNil: true},
	schema.Field{Name: "supervision", Kind: schema.Enum, EmptyAsNil: true, Enum: []string{"YES", "NO", "VIDEO", "ATTENDED"}},
	schema.Field{Name: "opening_hours", Kind: schema.String, EmptyAsNil: true},
)

// Store indexes one source's overlay records by identifier.
type Store struct {
	sourceUID string
	index     map[string]model.StaticSite
}

// Load fetches and indexes the overlay collection for sourceUID. Per-feature
// validation failures are collected as import errors; a missing or
// unparseable collection is fatal and reported as a *model.FetchError.
func Load(ctx context.Context, client fetcher.Client, cfg config.OverlayConfig, sourceUID string) (*Store, []model.ImportError, error) {
	fc, err := loadCollection(ctx, client, cfg, sourceUID)
	if err != nil {
		return nil, nil, err
	}

	store := &Store{
		sourceUID: sourceUID,
		index:     make(map[string]model.StaticSite, len(fc.Features)),
	}
	errs := []model.ImportError{}
	now := time.Now().UTC().Truncate(time.Second)

	for _, feature := range fc.Features {
		site, err := featureToSite(feature, now)
		if err != nil {
			uid, _ := feature.Properties["uid"].(string)
			errs = append(errs, model.NewImportError(sourceUID, uid,
				fmt.Sprintf("invalid overlay feature: %v", err)))
			continue
		}
		store.index[site.UID] = site
	}

	zap.L().Debug("overlay: loaded collection",
		zap.String("source", sourceUID),
		zap.Int("features", len(store.index)),
		zap.Int("errors", len(errs)),
	)
	return store, errs, nil
}

func loadCollection(ctx context.Context, client fetcher.Client, cfg config.OverlayConfig, sourceUID string) (*geojson.FeatureCollection, error) {
	if cfg.BasePath != "" {
		path := filepath.Join(cfg.BasePath, sourceUID+".geojson")
		f, err := os.Open(path)
		if err != nil {
			return nil, &model.FetchError{SourceUID: sourceUID, URL: path, Err: err}
		}
		defer f.Close()

		fc, err := geo.DecodeFeatureCollection(f)
		if err != nil {
			return nil, &model.FetchError{SourceUID: sourceUID, URL: path, Err: err}
		}
		return fc, nil
	}

	url := fmt.Sprintf("%s/%s.geojson", cfg.BaseURL, sourceUID)
	body, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	fc, err := geo.DecodeFeatureCollection(body)
	if err != nil {
		return nil, &model.FetchError{SourceUID: sourceUID, URL: url, Err: err}
	}
	return fc, nil
}

// featureToSite validates one overlay feature into a canonical record.
func featureToSite(feature *geojson.Feature, now time.Time) (model.StaticSite, error) {
	lon, lat, err := geo.PointCoords(feature)
	if err != nil {
		return model.StaticSite{}, err
	}

	values, err := featureSchema.Validate(model.RawRecord(feature.Properties))
	if err != nil {
		return model.StaticSite{}, err
	}

	site := model.StaticSite{
		UID:                 values.String("uid"),
		Name:                values.String("name"),
		Type:                model.SiteType(values.String("type")),
		Lat:                 geo.QuantizeFloat(lat),
		Lon:                 geo.QuantizeFloat(lon),
		OperatorName:        values.StringPtr("operator_name"),
		Address:             values.StringPtr("address"),
		Description:         values.StringPtr("description"),
		PublicURL:           values.StringPtr("public_url"),
		PhotoURL:            values.StringPtr("photo_url"),
		RelatedLocation:     values.StringPtr("related_location"),
		Capacity:            values.IntPtr("capacity"),
		CapacityCharging:    values.IntPtr("capacity_charging"),
		CapacityDisabled:    values.IntPtr("capacity_disabled"),
		MaxStay:             values.IntPtr("max_stay"),
		HasFee:              values.BoolPtr("has_fee"),
		IsCovered:           values.BoolPtr("is_covered"),
		HasLighting:         values.BoolPtr("has_lighting"),
		OpeningHours:        values.StringPtr("opening_hours"),
		StaticDataUpdatedAt: now,
	}
	if s := values.StringPtr("supervision"); s != nil {
		site.Supervision = model.Ptr(model.Supervision(*s))
	}
	return site, nil
}

// Lookup returns the overlay record for uid.
func (s *Store) Lookup(uid string) (model.StaticSite, bool) {
	site, ok := s.index[uid]
	return site, ok
}

// Len returns the number of indexed overlay records.
func (s *Store) Len() int { return len(s.index) }

// Apply merges the overlay counterpart of site into it, if one exists. A
// record whose identifier has no overlay entry passes through unchanged;
// fan-out sub-records are matched by their own identifier only.
func (s *Store) Apply(site model.StaticSite) model.StaticSite {
	o, ok := s.index[site.UID]
	if !ok {
		return site
	}
	return merge(site, o)
}

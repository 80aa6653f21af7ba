// Package radvis converts bike parking facilities from the RadVIS
// Baden-Württemberg geodata portal. The feed is GeoJSON in EPSG:25832
// (ETRS89 / UTM 32N); coordinates are reprojected to WGS84. A facility that
// also reports lockers fans out into a second lockbox record nested under
// the facility.
package radvis

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/config"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/fetcher"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/geo"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/schema"
)

var utm32 = geo.NewETRS89UTM(32)

var propertiesSchema = schema.New(
	schema.Field{Name: "id", Kind: schema.Int, Required: true},
	schema.Field{Name: "betreiber", Kind: schema.String, Required: true},
	schema.Field{Name: "anzahl_stellplaetze", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "anzahl_schliessfaecher", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "anzahl_lademoeglichkeiten", Kind: schema.Int, EmptyAsNil: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "ueberwacht", Kind: schema.Enum, Required: true, Enum: []string{"KEINE", "UNBEKANNT", "VIDEO"}},
	schema.Field{Name: "abstellanlagen_ort", Kind: schema.Enum, Required: true, Enum: []string{
		"OEFFENTLICHE_EINRICHTUNG", "BIKE_AND_RIDE", "UNBEKANNT", "SCHULE", "STRASSENRAUM", "SONSTIGES",
	}},
	// The portal exports an empty string instead of null for unclassified
	// facilities.
	schema.Field{Name: "groessenklasse", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "stellplatzart", Kind: schema.Enum, Required: true, Enum: []string{
		"ANLEHNBUEGEL", "FAHRRADBOX", "VORDERRADANSCHLUSS", "SONSTIGE", "DOPPELSTOECKIG", "FAHRRADPARKHAUS", "SAMMELANLAGE",
	}},
	schema.Field{Name: "ueberdacht", Kind: schema.Bool, Required: true},
	schema.Field{Name: "beschreibung", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "weitere_information", Kind: schema.String, EmptyAsNil: true},
	schema.Field{Name: "status", Kind: schema.Enum, Required: true, Enum: []string{"AKTIV"}},
)

// Converter implements converter.PullConverter.
type Converter struct {
	cfg    *config.Config
	client fetcher.Client
}

// New creates the RadVIS converter.
func New(cfg *config.Config, client fetcher.Client) *Converter {
	return &Converter{cfg: cfg, client: client}
}

// Info implements converter.PullConverter.
func (c *Converter) Info() converter.SourceInfo {
	return converter.SourceInfo{
		UID:                    "radvis_bw",
		Name:                   "RadVIS Baden-Württemberg: Fahrrad-Abstellanlagen",
		PublicURL:              "https://www.aktivmobil-bw.de/radverkehr/raddaten/radvis-bw/",
		SourceURL:              "https://www.mobidata-bw.de/geoserver/radvis/wfs?service=WFS&request=GetFeature&typeName=radvis%3Aabstellanlage&outputFormat=application/json",
		AttributionContributor: "Verkehrsministerium Baden-Württemberg",
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
		easting, northing, err := geo.PointCoords(feature)
		if err != nil {
			errs = append(errs, model.NewImportError(info.UID, feature.ID, err.Error()))
			continue
		}

		values, err := propertiesSchema.Validate(model.RawRecord(feature.Properties))
		if err != nil {
			errs = append(errs, model.NewImportError(info.UID, feature.ID, err.Error()))
			continue
		}

		sites = append(sites, mapFeature(values, easting, northing, now)...)
	}
	return sites, errs, nil
}

// mapFeature turns one validated facility into canonical records: the
// facility itself, plus a nested lockbox record when lockers are reported.
func mapFeature(values schema.Values, easting, northing float64, now time.Time) []model.StaticSite {
	uid := strconv.Itoa(values.Int("id"))
	lon, lat := utm32.InverseQuantized(easting, northing)

	base := model.StaticSite{
		UID:                 uid,
		Name:                "Abstellanlage",
		Purpose:             model.PurposeBike,
		Type:                siteType(values.String("stellplatzart")),
		Lat:                 lat,
		Lon:                 lon,
		OperatorName:        model.Ptr(values.String("betreiber")),
		Description:         description(values),
		RelatedLocation:     relatedLocation(values.String("abstellanlagen_ort")),
		Supervision:         supervision(values.String("ueberwacht")),
		IsCovered:           model.Ptr(values.Bool("ueberdacht")),
		Capacity:            model.Ptr(values.Int("anzahl_stellplaetze")),
		CapacityCharging:    values.IntPtr("anzahl_lademoeglichkeiten"),
		Tags:                sizeTags(values),
		HasRealtimeData:     false,
		StaticDataUpdatedAt: now,
	}

	lockers := values.IntPtr("anzahl_schliessfaecher")
	if lockers == nil || *lockers == 0 {
		return []model.StaticSite{base}
	}

	// Fan out: the lockbox bank shares the facility's base data and nests
	// under it via the group uid.
	base.GroupUID = uid
	lockbox := base
	lockbox.UID = uid + "-lockbox"
	lockbox.Name = "Schließfach"
	lockbox.Purpose = model.PurposeItem
	lockbox.Type = model.SiteTypeLockbox
	lockbox.Capacity = lockers
	lockbox.CapacityCharging = nil

	return []model.StaticSite{base, lockbox}
}

// siteType maps the portal's facility classification. New upstream values
// intentionally land on OTHER.
func siteType(stellplatzart string) model.SiteType {
	switch stellplatzart {
	case "ANLEHNBUEGEL":
		return model.SiteTypeStands
	case "FAHRRADBOX":
		return model.SiteTypeLockers
	case "VORDERRADANSCHLUSS":
		return model.SiteTypeWallLoops
	case "DOPPELSTOECKIG":
		return model.SiteTypeTwoTier
	case "FAHRRADPARKHAUS":
		return model.SiteTypeBuilding
	case "SAMMELANLAGE":
		return model.SiteTypeShed
	default: // SONSTIGE and future values
		return model.SiteTypeOther
	}
}

// supervision maps the portal's supervision classification. UNBEKANNT maps
// to no statement at all, not to SupervisionNo.
func supervision(ueberwacht string) *model.Supervision {
	switch ueberwacht {
	case "KEINE":
		return model.Ptr(model.SupervisionNo)
	case "VIDEO":
		return model.Ptr(model.SupervisionVideo)
	default: // UNBEKANNT
		return nil
	}
}

func relatedLocation(ort string) *string {
	switch ort {
	case "OEFFENTLICHE_EINRICHTUNG":
		return model.Ptr("Öffentliche Einrichtung")
	case "BIKE_AND_RIDE":
		return model.Ptr("Bike and Ride")
	case "SCHULE":
		return model.Ptr("Schule")
	case "STRASSENRAUM":
		return model.Ptr("Straßenraum")
	default: // UNBEKANNT, SONSTIGES
		return nil
	}
}

// description joins the two free-text fields and strips line breaks, which
// the portal embeds in multiline descriptions.
func description(values schema.Values) *string {
	parts := []string{}
	if s := values.String("beschreibung"); s != "" {
		parts = append(parts, s)
	}
	if s := values.String("weitere_information"); s != "" {
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " ")
	joined = strings.ReplaceAll(joined, "\r", "")
	joined = strings.ReplaceAll(joined, "\n", " ")
	return &joined
}

func sizeTags(values schema.Values) []string {
	if s := values.String("groessenklasse"); s != "" {
		return []string{"BW_SIZE_" + s}
	}
	return nil
}

// Package kienzler converts data from the Kienzler bike box platform. The
// same JSON API runs under several regional deployments (Bike and Ride,
// Karlsruhe, Offenburg, ...), so one converter serves many registered
// profiles that differ only in endpoint and credentials.
package kienzler

import (
	"context"
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

// The unit API rejects requests for more than 25 ids at once.
const idChunkSize = 25

// Profile is one regional deployment of the box platform.
type Profile struct {
	UID       string
	Name      string
	ConfigKey string // prefix for user/password/ids config keys
	PublicURL string
	SourceURL string

	// UsesOverlay enables merging against the source's geodata collection,
	// which carries richer location data than the API itself.
	UsesOverlay bool
}

// Profiles returns the registered deployments.
func Profiles() []Profile {
	return []Profile{
		{UID: "kienzler_bike_and_ride", Name: "Kienzler: Bike and Ride", ConfigKey: "kienzler.bike_and_ride", PublicURL: "https://www.bikeandridebox.de", SourceURL: "https://www.bikeandridebox.de", UsesOverlay: true},
		{UID: "kienzler_karlsruhe", Name: "Kienzler: Karlsruhe", ConfigKey: "kienzler.karlsruhe", PublicURL: "https://www.bikeandridebox.de", SourceURL: "https://www.bikeandridebox.de", UsesOverlay: true},
		{UID: "kienzler_neckarsulm", Name: "Kienzler: Neckarsulm", ConfigKey: "kienzler.neckarsulm", PublicURL: "https://www.bikeandridebox.de", SourceURL: "https://www.bikeandridebox.de", UsesOverlay: true},
		{UID: "kienzler_offenburg", Name: "Kienzler: Offenburg", ConfigKey: "kienzler.offenburg", PublicURL: "https://www.fahrradparken-in-offenburg.de", SourceURL: "https://www.fahrradparken-in-offenburg.de", UsesOverlay: true},
		{UID: "kienzler_rad_safe", Name: "Kienzler: RadSafe", ConfigKey: "kienzler.rad_safe", PublicURL: "https://www.rad-safe.de", SourceURL: "https://www.rad-safe.de", UsesOverlay: true},
		{UID: "kienzler_stuttgart", Name: "Kienzler: Stuttgart", ConfigKey: "kienzler.stuttgart", PublicURL: "https://stuttgart.bike-and-park.de", SourceURL: "https://stuttgart.bike-and-park.de", UsesOverlay: true},
		{UID: "kienzler_vrn", Name: "Kienzler: VRN", ConfigKey: "kienzler.vrn", PublicURL: "https://www.vrnradbox.de", SourceURL: "https://www.vrnradbox.de", UsesOverlay: true},
		{UID: "kienzler_vvs", Name: "Kienzler: VVS", ConfigKey: "kienzler.vvs", PublicURL: "https://vvs.bike-and-park.de", SourceURL: "https://vvs.bike-and-park.de", UsesOverlay: true},
	}
}

var unitSchema = schema.New(
	schema.Field{Name: "id", Kind: schema.String, Required: true},
	schema.Field{Name: "name", Kind: schema.String, Required: true},
	schema.Field{Name: "lat", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "long", Kind: schema.Decimal, Required: true},
	schema.Field{Name: "bookable", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
	schema.Field{Name: "sum_boxes", Kind: schema.Int, Required: true, MinInt: model.Ptr(0)},
)

// Converter implements converter.RealtimePullConverter for one profile.
type Converter struct {
	profile Profile
	cfg     *config.Config
	client  fetcher.Client
}

// New creates the converter for one profile.
func New(profile Profile, cfg *config.Config, client fetcher.Client) *Converter {
	return &Converter{profile: profile, cfg: cfg, client: client}
}

// Info implements converter.PullConverter.
func (c *Converter) Info() converter.SourceInfo {
	return converter.SourceInfo{
		UID:             c.profile.UID,
		Name:            c.profile.Name,
		PublicURL:       c.profile.PublicURL,
		SourceURL:       c.profile.SourceURL,
		HasRealtimeData: true,
		UsesOverlay:     c.profile.UsesOverlay,
		RequiredConfigKeys: []string{
			c.profile.ConfigKey + ".user",
			c.profile.ConfigKey + ".password",
			c.profile.ConfigKey + ".ids",
		},
	}
}

// StaticSites implements converter.PullConverter.
func (c *Converter) StaticSites(ctx context.Context) ([]model.StaticSite, []model.ImportError, error) {
	units, errs, err := c.fetchUnits(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	sites := make([]model.StaticSite, 0, len(units))
	for _, unit := range units {
		sites = append(sites, c.toStaticSite(unit, now))
	}
	return sites, errs, nil
}

// RealtimeSites implements converter.RealtimePullConverter.
func (c *Converter) RealtimeSites(ctx context.Context) ([]model.RealtimeSite, []model.ImportError, error) {
	units, errs, err := c.fetchUnits(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	sites := make([]model.RealtimeSite, 0, len(units))
	for _, unit := range units {
		sites = append(sites, model.RealtimeSite{
			UID:                   unit.String("id"),
			OpeningStatus:         model.OpeningStatusUnknown,
			Capacity:              model.Ptr(unit.Int("sum_boxes")),
			FreeCapacity:          model.Ptr(unit.Int("bookable")),
			RealtimeDataUpdatedAt: now,
		})
	}
	return sites, errs, nil
}

func (c *Converter) toStaticSite(unit schema.Values, now time.Time) model.StaticSite {
	purpose := model.PurposeBike
	// Locker banks for luggage are listed on the same platform.
	if strings.Contains(unit.String("name"), "Schließfächer") {
		purpose = model.PurposeItem
	}

	return model.StaticSite{
		UID:                 unit.String("id"),
		Name:                unit.String("name"),
		Purpose:             purpose,
		Type:                model.SiteTypeLockers,
		Lat:                 geo.Quantize(unit.Decimal("lat")),
		Lon:                 geo.Quantize(unit.Decimal("long")),
		Capacity:            model.Ptr(unit.Int("sum_boxes")),
		PublicURL:           model.Ptr(c.bookingURL(unit.String("id"))),
		OpeningHours:        model.Ptr("24/7"),
		HasFee:              model.Ptr(true),
		HasRealtimeData:     true,
		StaticDataUpdatedAt: now,
	}
}

// bookingURL links to the box booking page. Unit ids carry a four character
// deployment prefix the booking page does not expect.
func (c *Converter) bookingURL(uid string) string {
	unitRef := uid
	if len(unitRef) > 4 {
		unitRef = unitRef[4:]
	}
	return fmt.Sprintf("%s/order/booking/?preselect_unit_uid=%s", c.profile.PublicURL, unitRef)
}

// fetchUnits requests all configured unit ids in chunks and validates each
// returned record. Validation failures are collected per record.
func (c *Converter) fetchUnits(ctx context.Context) ([]schema.Values, []model.ImportError, error) {
	ids := strings.Split(c.cfg.Get(c.profile.ConfigKey+".ids"), ",")
	user := c.cfg.Get(c.profile.ConfigKey + ".user")
	password := c.cfg.Get(c.profile.ConfigKey + ".password")

	var raws []model.RawRecord
	for start := 0; start < len(ids); start += idChunkSize {
		end := min(start+idChunkSize, len(ids))

		body, err := c.client.PostJSON(ctx, c.profile.SourceURL+"/index.php?eID=JSONAPI", map[string]any{
			"user":     user,
			"password": password,
			"action":   "capacity",
			"context":  "unit",
			"ids":      ids[start:end],
		})
		if err != nil {
			return nil, nil, err
		}

		chunk, err := fetcher.DecodeRawArray(body)
		_ = body.Close()
		if err != nil {
			return nil, nil, &model.FetchError{SourceUID: c.profile.UID, URL: c.profile.SourceURL, Err: err}
		}
		raws = append(raws, chunk...)
	}

	units := make([]schema.Values, 0, len(raws))
	errs := []model.ImportError{}
	for _, raw := range raws {
		values, err := unitSchema.Validate(raw)
		if err != nil {
			errs = append(errs, model.NewImportError(c.profile.UID, raw.StringOr("id", ""), err.Error()))
			continue
		}
		units = append(units, values)
	}
	return units, errs, nil
}

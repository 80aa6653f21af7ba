package radvis

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

type stubClient struct {
	response string
}

func (s *stubClient) Get(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.response)), nil
}

func (s *stubClient) GetAuth(context.Context, string, string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("unexpected GetAuth")
}

func (s *stubClient) PostJSON(context.Context, string, any) (io.ReadCloser, error) {
	return nil, fmt.Errorf("unexpected PostJSON")
}

func feature(id string, props string) string {
	return fmt.Sprintf(`{
		"type": "Feature",
		"id": %q,
		"geometry": {"type": "Point", "coordinates": [513435.517, 5403460.670]},
		"properties": %s
	}`, id, props)
}

func collection(features ...string) string {
	return fmt.Sprintf(`{"type": "FeatureCollection", "features": [%s]}`, strings.Join(features, ","))
}

func baseProps(overrides string) string {
	props := `"id": 4711,
		"betreiber": "Stadt Karlsruhe",
		"anzahl_stellplaetze": 20,
		"ueberwacht": "VIDEO",
		"abstellanlagen_ort": "BIKE_AND_RIDE",
		"groessenklasse": "",
		"stellplatzart": "ANLEHNBUEGEL",
		"ueberdacht": true,
		"status": "AKTIV"`
	if overrides != "" {
		props += ", " + overrides
	}
	return "{" + props + "}"
}

func fetch(t *testing.T, response string) ([]model.StaticSite, []model.ImportError) {
	t.Helper()
	conv := New(nil, &stubClient{response: response})
	sites, errs, err := conv.StaticSites(context.Background())
	require.NoError(t, err)
	return sites, errs
}

func TestStaticSites_Mapping(t *testing.T) {
	sites, errs := fetch(t, collection(feature("f1", baseProps(""))))
	assert.Empty(t, errs)
	require.Len(t, sites, 1)

	site := sites[0]
	assert.Equal(t, "4711", site.UID)
	assert.Empty(t, site.GroupUID)
	assert.Equal(t, model.PurposeBike, site.Purpose)
	assert.Equal(t, model.SiteTypeStands, site.Type)
	assert.Equal(t, "Stadt Karlsruhe", *site.OperatorName)
	assert.Equal(t, model.SupervisionVideo, *site.Supervision)
	assert.Equal(t, "Bike and Ride", *site.RelatedLocation)
	assert.True(t, *site.IsCovered)
	assert.Equal(t, 20, *site.Capacity)
	assert.Empty(t, site.Tags)
}

func TestStaticSites_Reprojection(t *testing.T) {
	sites, _ := fetch(t, collection(feature("f1", baseProps(""))))
	require.Len(t, sites, 1)

	// The fixture point is Stuttgart main station in EPSG:25832.
	lat, _ := sites[0].Lat.Float64()
	lon, _ := sites[0].Lon.Float64()
	assert.InDelta(t, 48.7840, lat, 1e-4)
	assert.InDelta(t, 9.1829, lon, 1e-4)

	// Reprojection is deterministic across fetches.
	again, _ := fetch(t, collection(feature("f1", baseProps(""))))
	assert.True(t, sites[0].Lat.Equal(again[0].Lat))
	assert.True(t, sites[0].Lon.Equal(again[0].Lon))
}

func TestStaticSites_LockboxFanOut(t *testing.T) {
	sites, errs := fetch(t, collection(feature("f1", baseProps(`"anzahl_schliessfaecher": 6`))))
	assert.Empty(t, errs)
	require.Len(t, sites, 2)

	parent, child := sites[0], sites[1]
	assert.Equal(t, "4711", parent.UID)
	assert.Equal(t, "4711", parent.GroupUID)
	assert.Equal(t, "4711-lockbox", child.UID)
	assert.Equal(t, "4711", child.GroupUID)

	assert.Equal(t, model.PurposeItem, child.Purpose)
	assert.Equal(t, model.SiteTypeLockbox, child.Type)
	assert.Equal(t, 6, *child.Capacity)
	assert.Nil(t, child.CapacityCharging)

	// Base data is duplicated onto the nested record.
	assert.True(t, child.Lat.Equal(parent.Lat))
	assert.True(t, child.Lon.Equal(parent.Lon))
	assert.Equal(t, *parent.OperatorName, *child.OperatorName)
	assert.Equal(t, *parent.IsCovered, *child.IsCovered)
}

func TestStaticSites_ZeroLockersNoFanOut(t *testing.T) {
	sites, _ := fetch(t, collection(feature("f1", baseProps(`"anzahl_schliessfaecher": 0`))))
	require.Len(t, sites, 1)
	assert.Empty(t, sites[0].GroupUID)
}

func TestStaticSites_EnumFallbacks(t *testing.T) {
	props := strings.NewReplacer(
		`"ueberwacht": "VIDEO"`, `"ueberwacht": "UNBEKANNT"`,
		`"stellplatzart": "ANLEHNBUEGEL"`, `"stellplatzart": "SONSTIGE"`,
		`"abstellanlagen_ort": "BIKE_AND_RIDE"`, `"abstellanlagen_ort": "UNBEKANNT"`,
	).Replace(baseProps(""))

	sites, _ := fetch(t, collection(feature("f1", props)))
	require.Len(t, sites, 1)

	assert.Nil(t, sites[0].Supervision)
	assert.Equal(t, model.SiteTypeOther, sites[0].Type)
	assert.Nil(t, sites[0].RelatedLocation)
}

func TestStaticSites_SizeClassTag(t *testing.T) {
	props := strings.Replace(baseProps(""), `"groessenklasse": ""`, `"groessenklasse": "STANDARD"`, 1)

	sites, _ := fetch(t, collection(feature("f1", props)))
	require.Len(t, sites, 1)
	assert.Equal(t, []string{"BW_SIZE_STANDARD"}, sites[0].Tags)
}

func TestStaticSites_DescriptionJoinedAndCleaned(t *testing.T) {
	sites, _ := fetch(t, collection(feature("f1", baseProps(
		`"beschreibung": "Zeile eins\r\nZeile zwei", "weitere_information": "Zusatz"`))))
	require.Len(t, sites, 1)
	assert.Equal(t, "Zeile eins Zeile zwei Zusatz", *sites[0].Description)
}

func TestStaticSites_InactiveStatusCollected(t *testing.T) {
	props := strings.Replace(baseProps(""), `"status": "AKTIV"`, `"status": "GEPLANT"`, 1)

	sites, errs := fetch(t, collection(
		feature("f1", baseProps("")),
		feature("f2", props),
	))
	assert.Len(t, sites, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, "radvis_bw", errs[0].SourceUID)
	assert.Equal(t, "f2", errs[0].SiteUID)
}

package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFeatureCollection(t *testing.T) {
	fc, err := DecodeFeatureCollection(strings.NewReader(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [9.18, 48.78]},
			"properties": {"uid": "p1"}
		}]
	}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	lon, lat, err := PointCoords(fc.Features[0])
	require.NoError(t, err)
	assert.Equal(t, 9.18, lon)
	assert.Equal(t, 48.78, lat)
}

func TestDecodeFeatureCollection_Malformed(t *testing.T) {
	_, err := DecodeFeatureCollection(strings.NewReader("{broken"))
	assert.Error(t, err)
}

func TestPointCoords_NonPointGeometry(t *testing.T) {
	fc, err := DecodeFeatureCollection(strings.NewReader(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"geometry": {"type": "LineString", "coordinates": [[9.18, 48.78], [9.19, 48.79]]},
			"properties": {"uid": "p1"}
		}]
	}`))
	require.NoError(t, err)

	_, _, err = PointCoords(fc.Features[0])
	assert.Error(t, err)
}

package geo

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// DecodeFeatureCollection parses a GeoJSON FeatureCollection from r.
func DecodeFeatureCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read geojson")
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geo: decode feature collection")
	}
	return &fc, nil
}

// PointCoords extracts (lon, lat) from a feature's point geometry.
func PointCoords(f *geojson.Feature) (lon, lat float64, err error) {
	point, ok := f.Geometry.(*geom.Point)
	if !ok || point == nil {
		return 0, 0, eris.New("geo: feature geometry is not a point")
	}
	return point.X(), point.Y(), nil
}

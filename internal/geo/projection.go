package geo

import (
	"math"

	"github.com/shopspring/decimal"
)

// UTM is a universal transverse Mercator projection on a reference ellipsoid.
// Only the inverse direction (projected easting/northing back to geographic
// longitude/latitude) is implemented; sources deliver projected coordinates
// and the canonical schema is always WGS84.
type UTM struct {
	zone int
	a    float64 // semi-major axis
	e2   float64 // first eccentricity squared
}

const utmScaleFactor = 0.9996
const utmFalseEasting = 500000.0

// NewETRS89UTM returns the projection for EPSG:258xx coordinates (ETRS89 on
// the GRS80 ellipsoid), e.g. zone 32 for EPSG:25832 used by state geodata
// portals in southwest Germany.
func NewETRS89UTM(zone int) UTM {
	// GRS80: a = 6378137, 1/f = 298.257222101
	return newUTM(zone, 6378137.0, 1.0/298.257222101)
}

// NewWGS84UTM returns the projection for UTM coordinates referenced to the
// WGS84 ellipsoid.
func NewWGS84UTM(zone int) UTM {
	// WGS84: a = 6378137, 1/f = 298.257223563
	return newUTM(zone, 6378137.0, 1.0/298.257223563)
}

func newUTM(zone int, a, f float64) UTM {
	return UTM{zone: zone, a: a, e2: f * (2 - f)}
}

// centralMeridian returns the zone's central meridian in radians.
func (p UTM) centralMeridian() float64 {
	return float64(6*p.zone-183) * math.Pi / 180
}

// Inverse converts projected (easting, northing) in meters to geographic
// (lon, lat) in degrees using the standard series expansion of the inverse
// transverse Mercator (Snyder, Map Projections — A Working Manual, eq.
// 8-17ff). Pure float64 arithmetic; identical input produces identical
// output on every run.
func (p UTM) Inverse(easting, northing float64) (lon, lat float64) {
	e2 := p.e2
	ep2 := e2 / (1 - e2)

	x := easting - utmFalseEasting
	m := northing / utmScaleFactor

	mu := m / (p.a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	// Footpoint latitude.
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := sinPhi1 / cosPhi1

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := p.a / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := p.a * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * utmScaleFactor)

	latRad := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lonRad := p.centralMeridian() + (d-
		(1+2*t1+c1)*d*d*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120)/cosPhi1

	return lonRad * 180 / math.Pi, latRad * 180 / math.Pi
}

// InverseQuantized reprojects and quantizes in one step, returning canonical
// decimal coordinates.
func (p UTM) InverseQuantized(easting, northing float64) (lon, lat decimal.Decimal) {
	lonF, latF := p.Inverse(easting, northing)
	return QuantizeFloat(lonF), QuantizeFloat(latF)
}

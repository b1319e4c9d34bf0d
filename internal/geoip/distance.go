package geoip

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371 * 1000

// DistanceMeters returns the great-circle distance in meters between two
// coordinates given in degrees, using the haversine formula. The result is
// symmetric in its two coordinate pairs and zero for identical points up to
// floating-point precision. Antipodal and pole coordinates get no special
// treatment beyond the formula itself.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1, lon1 = radians(lat1), radians(lon1)
	lat2, lon2 = radians(lat2), radians(lon2)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusMeters
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

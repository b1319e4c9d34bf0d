// Package maxmind adapts a MaxMind GeoLite2/GeoIP2 City database to the
// geoip.Resolver interface.
package maxmind

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/gatewise/geofence/internal/geoip"
)

// Resolver reads geolocation records from a City mmdb file. The database is
// opened once and never reloaded; readers are safe for concurrent use.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the City database at path.
func Open(path string) (*Resolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo database: %w", err)
	}

	return &Resolver{reader: reader}, nil
}

// Resolve looks up the address in the City database. Addresses without an
// entry resolve to geoip.ErrNotFound, which callers treat the same as a
// transport error.
func (r *Resolver) Resolve(ctx context.Context, address string) (*geoip.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return nil, fmt.Errorf("invalid source address %q", address)
	}

	city, err := r.reader.City(ip)
	if err != nil {
		return nil, err
	}

	rec := &geoip.Record{
		CountryISOCode: city.Country.IsoCode,
		CountryName:    city.Country.Names["en"],
		CityName:       city.City.Names["en"],
		Timezone:       city.Location.TimeZone,
	}
	if len(city.Subdivisions) > 0 {
		rec.RegionName = city.Subdivisions[0].Names["en"]
	}
	// The mmdb format has no presence flag for coordinates; 0,0 only shows up
	// for addresses the database cannot place.
	if city.Location.Latitude != 0 || city.Location.Longitude != 0 {
		lat, lon := city.Location.Latitude, city.Location.Longitude
		rec.Latitude, rec.Longitude = &lat, &lon
	}

	if rec.CountryISOCode == "" && !rec.HasCoordinates() {
		return nil, geoip.ErrNotFound
	}

	return rec, nil
}

// Close releases the underlying database reader.
func (r *Resolver) Close() error {
	return r.reader.Close()
}

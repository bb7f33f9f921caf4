package bits

import (
	"fmt"
	"math"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// gpsScale converts decimal degrees to the fixed-point int32 representation
// used on the wire: round(deg * 1e7), giving ~1.1cm precision.
const gpsScale = 1e7

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// maxLatDegrees and maxLonDegrees bound valid decoded coordinates.
const (
	maxLatDegrees = 90.0
	maxLonDegrees = 180.0
)

// GPS is a fixed-point lat/lon coordinate pair.
type GPS struct {
	// LatE7 is latitude in units of 1e-7 degrees.
	LatE7 int32
	// LonE7 is longitude in units of 1e-7 degrees.
	LonE7 int32
}

// NewGPS builds a GPS value from decimal degrees.
func NewGPS(lat, lon float64) (GPS, error) {
	if lat < -maxLatDegrees || lat > maxLatDegrees || lon < -maxLonDegrees || lon > maxLonDegrees {
		return GPS{}, fmt.Errorf("gps: lat=%f lon=%f out of range: %w", lat, lon, bperrors.InvalidCoordinate)
	}
	return GPS{
		LatE7: int32(math.Round(lat * gpsScale)),
		LonE7: int32(math.Round(lon * gpsScale)),
	}, nil
}

// Lat returns the latitude in decimal degrees.
func (g GPS) Lat() float64 { return float64(g.LatE7) / gpsScale }

// Lon returns the longitude in decimal degrees.
func (g GPS) Lon() float64 { return float64(g.LonE7) / gpsScale }

// Encode writes the 8-byte big-endian fixed-point encoding (lat then lon).
func (g GPS) Encode(buf []byte) error {
	if len(buf) < 8 {
		return fmt.Errorf("gps encode: need 8 bytes, have %d: %w", len(buf), bperrors.InsufficientData)
	}
	if err := WriteUint32BE(buf, 0, uint32(g.LatE7)); err != nil {
		return err
	}
	return WriteUint32BE(buf, 4, uint32(g.LonE7))
}

// DecodeGPS reads an 8-byte big-endian fixed-point GPS coordinate from buf.
func DecodeGPS(buf []byte) (GPS, error) {
	if len(buf) < 8 {
		return GPS{}, fmt.Errorf("gps decode: need 8 bytes, have %d: %w", len(buf), bperrors.InsufficientData)
	}
	latRaw, _ := ReadUint32BE(buf, 0)
	lonRaw, _ := ReadUint32BE(buf, 4)
	g := GPS{LatE7: int32(latRaw), LonE7: int32(lonRaw)}

	if g.Lat() < -maxLatDegrees || g.Lat() > maxLatDegrees || g.Lon() < -maxLonDegrees || g.Lon() > maxLonDegrees {
		return GPS{}, fmt.Errorf("gps decode: lat=%f lon=%f out of range: %w", g.Lat(), g.Lon(), bperrors.InvalidCoordinate)
	}
	return g, nil
}

// Distance returns the great-circle distance in metres between a and b
// using the haversine formula.
func Distance(a, b GPS) float64 {
	lat1, lon1 := toRadians(a.Lat()), toRadians(a.Lon())
	lat2, lon2 := toRadians(b.Lat()), toRadians(b.Lon())

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

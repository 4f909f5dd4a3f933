// Package polyline decodes Google-encoded polyline strings (precision 5,
// ORS's default) and interpolates trip-plan stop coordinates along the
// decoded route.
//
// Grounded on the original Python implementation's
// _interpolate_stop_positions (backend/trips/views.py), which itself
// leans on the third-party `polyline` PyPI package for decoding only. No
// polyline decoder appears anywhere in the retrieved example pack and
// none is a load-bearing ecosystem dependency for a ~40-line well-known
// algorithm, so it is implemented directly here — see DESIGN.md.
package polyline

import (
	"math"

	"github.com/draymaster/hos-planner/internal/engine"
)

// LatLng is a decoded polyline point.
type LatLng struct {
	Lat float64
	Lng float64
}

// Decode decodes a Google-encoded polyline string (precision 5) into an
// ordered sequence of points.
func Decode(encoded string) []LatLng {
	var points []LatLng
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		lat += decodeValue(encoded, &index)
		lng += decodeValue(encoded, &index)
		points = append(points, LatLng{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}
	return points
}

func decodeValue(encoded string, index *int) int {
	shift, result := 0, 0
	for {
		b := int(encoded[*index]) - 63
		*index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1)
	}
	return result >> 1
}

// InterpolateStops assigns lat/lng to every stop whose coordinates are
// (0, 0) by walking the decoded route proportionally to the fraction of
// total driving time elapsed before that stop starts. Stops that already
// carry coordinates (pickup/dropoff, supplied at source) are untouched.
func InterpolateStops(stops []engine.StopEvent, timeline []engine.TimelineEvent, encodedPolyline string, totalDriveMinutes int) {
	if encodedPolyline == "" || totalDriveMinutes <= 0 {
		return
	}

	decoded := Decode(encodedPolyline)
	if len(decoded) < 2 {
		return
	}

	segLengths := make([]float64, len(decoded)-1)
	totalLength := 0.0
	for i := 1; i < len(decoded); i++ {
		dlat := decoded[i].Lat - decoded[i-1].Lat
		dlng := decoded[i].Lng - decoded[i-1].Lng
		d := math.Sqrt(dlat*dlat + dlng*dlng)
		segLengths[i-1] = d
		totalLength += d
	}
	if totalLength <= 0 {
		return
	}

	for i := range stops {
		s := &stops[i]
		if s.Lat != 0 || s.Lng != 0 {
			continue
		}

		drivingBefore := 0
		for _, evt := range timeline {
			if evt.Start >= s.GlobalMinute {
				break
			}
			if evt.Status == engine.Driving {
				end := min(evt.End, s.GlobalMinute)
				drivingBefore += end - evt.Start
			}
		}

		frac := float64(drivingBefore) / float64(totalDriveMinutes)
		if frac > 1.0 {
			frac = 1.0
		}
		targetDist := frac * totalLength

		cumulative := 0.0
		placed := false
		for idx, sl := range segLengths {
			if cumulative+sl >= targetDist {
				remaining := targetDist - cumulative
				ratio := 0.0
				if sl > 0 {
					ratio = remaining / sl
				}
				lat := decoded[idx].Lat + ratio*(decoded[idx+1].Lat-decoded[idx].Lat)
				lng := decoded[idx].Lng + ratio*(decoded[idx+1].Lng-decoded[idx].Lng)
				s.Lat = round6(lat)
				s.Lng = round6(lng)
				placed = true
				break
			}
			cumulative += sl
		}
		if !placed {
			last := decoded[len(decoded)-1]
			s.Lat = last.Lat
			s.Lng = last.Lng
		}
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Package render turns view state and street records into what the browser
// draws: polyline overlays, GeoJSON and the HTML page.
package render

import "github.com/UnknownOlympus/herroute/internal/models"

// Stroke style shared by every street overlay.
const (
	StrokeOpacity = 0.1
	StrokeWeight  = 6
	DefaultZoom   = 13
)

// LatLng is a point in the shape google.maps expects.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Polyline is serialized as google.maps.PolylineOptions.
type Polyline struct {
	Path          []LatLng `json:"path"`
	StrokeColor   string   `json:"strokeColor"`
	StrokeOpacity float64  `json:"strokeOpacity"`
	StrokeWeight  int      `json:"strokeWeight"`
}

func toLatLng(c models.Coordinates) LatLng {
	return LatLng{Lat: c.Latitude, Lng: c.Longitude}
}

// Overlays returns one polyline per street, in input order.
func Overlays(records []models.StreetRecord) []Polyline {
	lines := make([]Polyline, 0, len(records))
	for _, rec := range records {
		path := make([]LatLng, len(rec.Path))
		for i, p := range rec.Path {
			path[i] = toLatLng(p)
		}

		lines = append(lines, Polyline{
			Path:          path,
			StrokeColor:   rec.Color,
			StrokeOpacity: StrokeOpacity,
			StrokeWeight:  StrokeWeight,
		})
	}

	return lines
}

package render

import "github.com/UnknownOlympus/herroute/internal/models"

// FeatureCollection is a GeoJSON collection of street features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single street with its scoring properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   LineString     `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// LineString geometry. Positions are [lon, lat].
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// GeoJSON converts streets into a FeatureCollection for external map tools.
func GeoJSON(records []models.StreetRecord) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(records))}

	for _, rec := range records {
		coords := make([][2]float64, len(rec.Path))
		for i, p := range rec.Path {
			coords[i] = [2]float64{p.Longitude, p.Latitude}
		}

		props := map[string]any{
			"name":  rec.Name,
			"color": rec.Color,
			"score": rec.Score,
		}
		if rec.ID != "" {
			props["id"] = rec.ID
		}

		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   LineString{Type: "LineString", Coordinates: coords},
			Properties: props,
		})
	}

	return fc
}

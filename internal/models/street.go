package models

import "fmt"

// MinPathPoints is the smallest number of points that still draws a line.
const MinPathPoints = 2

// StreetRecord is one scored street segment as published by the scoring backend.
// The JSON tags are the canonical wire contract of GET /api/streets.
type StreetRecord struct {
	ID    string        `json:"streetId,omitempty"`
	Name  string        `json:"streetName"`
	Path  []Coordinates `json:"coordinates"       validate:"min=2,dive"`
	Color string        `json:"color"             validate:"required,iscolor"`
	Score float64       `json:"averageCrimeScore"` // informational only
}

// Validate checks that the record can be drawn: enough points, a usable color
// and every point within range.
func (s StreetRecord) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid street record %q: %w", s.Name, err)
	}

	return nil
}

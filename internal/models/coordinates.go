package models

import "fmt"

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"latitude"  validate:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude" validate:"longitude"` // Longitude of the geographical point.
}

// Validate reports whether both components are inside the WGS84 ranges.
func (c Coordinates) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid coordinates (%f, %f): %w", c.Latitude, c.Longitude, err)
	}

	return nil
}

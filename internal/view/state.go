// Package view holds the per-session view state of the map page and the
// transitions the page controls trigger.
package view

import (
	"errors"
	"fmt"

	"github.com/UnknownOlympus/herroute/internal/models"
)

// Panel is the content shown in the main area. Exactly one is active.
type Panel int

const (
	PanelMap Panel = iota
	PanelSettings
	PanelContact
)

var panelNames = map[Panel]string{
	PanelMap:      "map",
	PanelSettings: "settings",
	PanelContact:  "contact",
}

func (p Panel) String() string {
	if name, ok := panelNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Panel(%d)", int(p))
}

// MarshalText encodes the panel by name.
func (p Panel) MarshalText() ([]byte, error) {
	if _, ok := panelNames[p]; !ok {
		return nil, fmt.Errorf("unknown panel %d", int(p))
	}

	return []byte(p.String()), nil
}

// Preset is a selectable initial map position.
type Preset string

const (
	Seattle Preset = "Seattle"
	Tokyo   Preset = "Tokyo"
)

// ErrUnknownPreset is returned when a preset name is not one of Presets().
var ErrUnknownPreset = errors.New("unknown initial position")

var presetCenters = map[Preset]models.Coordinates{
	Seattle: {Latitude: 47.6062, Longitude: -122.3321},
	Tokyo:   {Latitude: 35.6812, Longitude: 139.7671},
}

// Presets lists the initial positions in selector order.
func Presets() []Preset {
	return []Preset{Seattle, Tokyo}
}

// Center returns the preset's map center.
func (p Preset) Center() (models.Coordinates, bool) {
	c, ok := presetCenters[p]
	return c, ok
}

// State is the complete view state of one session.
type State struct {
	Panel           Panel              `json:"panel"`
	Language        models.Language    `json:"language"`
	DarkMode        bool               `json:"darkMode"`
	SearchText      string             `json:"searchText"`
	Center          models.Coordinates `json:"center"`
	InitialPosition Preset             `json:"initialPosition"`
}

// Initial returns the state of a fresh session: map panel, light mode, Seattle.
func Initial(lang models.Language) State {
	return State{
		Panel:           PanelMap,
		Language:        lang,
		Center:          presetCenters[Seattle],
		InitialPosition: Seattle,
	}
}

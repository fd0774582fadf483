package view

import (
	"slices"
	"sync"

	"github.com/UnknownOlympus/herroute/internal/apperr"
	"github.com/UnknownOlympus/herroute/internal/models"
)

// Controller owns one session's State. All transitions go through it.
type Controller struct {
	mu    sync.Mutex
	state State

	// searchIssued is the token of the most recently started search.
	searchIssued uint64
}

// NewController creates a controller in the initial state.
func NewController(lang models.Language) *Controller {
	return &Controller{state: Initial(lang)}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Home shows the map.
func (c *Controller) Home() {
	c.setPanel(PanelMap)
}

// Mail shows the contact form.
func (c *Controller) Mail() {
	c.setPanel(PanelContact)
}

// ToggleSettings opens settings, or returns to the map if settings are open.
func (c *Controller) ToggleSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Panel == PanelSettings {
		c.state.Panel = PanelMap
		return
	}
	c.state.Panel = PanelSettings
}

func (c *Controller) setPanel(p Panel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Panel = p
}

// SelectPreset records the initial position and moves the center to it.
func (c *Controller) SelectPreset(p Preset) error {
	center, ok := p.Center()
	if !ok {
		return apperr.Wrap(apperr.KindValidation, "unknown initial position "+string(p), ErrUnknownPreset).
			WithOp("view.SelectPreset")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.InitialPosition = p
	c.state.Center = center

	return nil
}

// SelectLanguage changes the display language. Center and panel stay as they are.
func (c *Controller) SelectLanguage(lang models.Language) error {
	if !slices.Contains(models.Languages(), lang) {
		return apperr.Wrap(apperr.KindValidation, "unknown language "+string(lang), models.ErrUnknownLanguage).
			WithOp("view.SelectLanguage")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Language = lang

	return nil
}

// ToggleDarkMode flips between day and night display.
func (c *Controller) ToggleDarkMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.DarkMode = !c.state.DarkMode
}

// SetSearchText stores the contents of the search box.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SearchText = text
}

// BeginSearch stores the query and returns the token its result must present
// to CompleteSearch.
func (c *Controller) BeginSearch(query string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchIssued++
	c.state.SearchText = query

	return c.searchIssued
}

// CompleteSearch moves the center to coords if token belongs to the latest
// search. It reports whether the center was applied.
func (c *Controller) CompleteSearch(token uint64, coords models.Coordinates) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.searchIssued {
		return false
	}
	c.state.Center = coords

	return true
}

package view

// Display holds everything the page derives from State. It is recomputed on
// every render and never stored.
type Display struct {
	RootClass   string `json:"rootClass"`
	TextClass   string `json:"textClass"`
	ToggleClass string `json:"toggleClass"`
	Heading     string `json:"heading"`
	MapLocale   string `json:"mapLocale"`
	ShowMap     bool   `json:"showMap"`
	Text        Text   `json:"text"`
}

// Derive computes the display flags and strings for s.
func Derive(s State) Display {
	text := TextFor(s.Language)

	d := Display{
		RootClass:   "",
		TextClass:   "text-gray-800",
		ToggleClass: "translate-x-0",
		Heading:     text.HeadingDay,
		MapLocale:   string(s.Language),
		ShowMap:     s.Panel == PanelMap,
		Text:        text,
	}

	if s.DarkMode {
		d.RootClass = "dark"
		d.TextClass = "text-white"
		d.ToggleClass = "translate-x-5 bg-blue-400"
		d.Heading = text.HeadingNight
	}

	return d
}

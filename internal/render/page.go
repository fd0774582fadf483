package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"time"

	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/view"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed assets
var assets embed.FS

const (
	mimeHTML = "text/html"
	mimeCSS  = "text/css"
	mimeJS   = "text/javascript"
)

// Renderer builds the HTML page. It is safe for concurrent use.
type Renderer struct {
	tmpl     *template.Template
	minifier *minify.M
	css      template.CSS
	js       template.JS
	mapsKey  string
	refresh  time.Duration
}

// boot is handed to the page script as window.herroute.
type boot struct {
	Center   LatLng     `json:"center"`
	Zoom     int        `json:"zoom"`
	Overlays []Polyline `json:"overlays"`
	NotFound string     `json:"notFound"`

	StreetsURL  string `json:"streetsUrl"`
	EmptyPollMs int64  `json:"emptyPollMs"`
	RefreshMs   int64  `json:"refreshMs"`
}

const (
	// StreetsPath is polled by the page to pick up street sets loaded after it was rendered.
	StreetsPath = "/api/streets"

	emptyStreetsPoll = 5 * time.Second
)

type pageData struct {
	State     view.State
	Display   view.Display
	Presets   []view.Preset
	Languages []models.Language
	MapsKey   string
	Notice    string
	Boot      boot
	CSS       template.CSS
	JS        template.JS
}

// Is reports whether the named panel is active.
func (p pageData) Is(panel string) bool {
	return p.State.Panel.String() == panel
}

// NewRenderer parses the page template and minifies the static assets once.
// An empty mapsKey is allowed; the page then shows a notice in place of the map.
// A positive refresh makes open pages reload the streets on that interval.
func NewRenderer(mapsKey string, refresh time.Duration, log *slog.Logger) (*Renderer, error) {
	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.Add(mimeHTML, &html.Minifier{KeepDocumentTags: true, KeepEndTags: true, KeepQuotes: true})

	tmpl, err := template.ParseFS(assets, "assets/page.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("error parse template: %w", err)
	}

	cssMin, err := minifyAsset(m, mimeCSS, "assets/style.css")
	if err != nil {
		return nil, err
	}
	jsMin, err := minifyAsset(m, mimeJS, "assets/app.js")
	if err != nil {
		return nil, err
	}

	if mapsKey == "" {
		log.Warn("Maps API key is not configured, the map panel will show a notice instead of the map")
	}

	return &Renderer{
		tmpl:     tmpl,
		minifier: m,
		css:      template.CSS(cssMin),
		js:       template.JS(jsMin),
		mapsKey:  mapsKey,
		refresh:  refresh,
	}, nil
}

func minifyAsset(m *minify.M, mime, name string) (string, error) {
	raw, err := assets.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("error read %s: %w", name, err)
	}

	out, err := m.String(mime, string(raw))
	if err != nil {
		return "", fmt.Errorf("error minify %s: %w", name, err)
	}

	return out, nil
}

// Page renders the full page for state with the given streets drawn on the
// map. notice is an optional message shown on the contact panel.
func (r *Renderer) Page(state view.State, records []models.StreetRecord, notice string) ([]byte, error) {
	display := view.Derive(state)

	data := pageData{
		State:     state,
		Display:   display,
		Presets:   view.Presets(),
		Languages: models.Languages(),
		MapsKey:   r.mapsKey,
		Notice:    notice,
		Boot: boot{
			Center:   toLatLng(state.Center),
			Zoom:     DefaultZoom,
			Overlays: Overlays(records),
			NotFound: display.Text.NotFound,

			StreetsURL:  StreetsPath,
			EmptyPollMs: emptyStreetsPoll.Milliseconds(),
			RefreshMs:   r.refresh.Milliseconds(),
		},
		CSS: r.css,
		JS:  r.js,
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page.html.tpl", data); err != nil {
		return nil, fmt.Errorf("error execute template: %w", err)
	}

	out, err := r.minifier.Bytes(mimeHTML, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error minify HTML: %w", err)
	}

	return out, nil
}

// HasMap reports whether a Maps API key is configured.
func (r *Renderer) HasMap() bool {
	return r.mapsKey != ""
}

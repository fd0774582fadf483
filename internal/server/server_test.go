package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/herroute/internal/geocoding"
	"github.com/UnknownOlympus/herroute/internal/metrics"
	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/render"
	"github.com/UnknownOlympus/herroute/internal/server"
	"github.com/UnknownOlympus/herroute/internal/service"
	"github.com/UnknownOlympus/herroute/internal/streets"
	"github.com/UnknownOlympus/herroute/internal/view"
	"github.com/UnknownOlympus/herroute/test/mocks"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler  http.Handler
	provider *mocks.Provider
	store    *streets.Store
	metrics  *metrics.Metrics
	logs     *bytes.Buffer
	cookie   *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	provider := mocks.NewProvider(t)
	store := streets.NewStore()
	renderer, err := render.NewRenderer("test-key", time.Minute, logger)
	require.NoError(t, err)

	srv := server.New(server.Deps{
		Log:        logger,
		Sessions:   view.NewSessions(m.ActiveSessions, 0),
		Search:     service.NewSearchService(logger, provider, "mock", m),
		Streets:    store,
		Renderer:   renderer,
		Metrics:    m,
		SessionTTL: time.Hour,
	})

	return &testEnv{handler: srv.Handler(), provider: provider, store: store, metrics: m, logs: logs}
}

// do sends a request carrying the session cookie and remembers the cookie it gets back.
func (e *testEnv) do(t *testing.T, method, target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == server.SessionCookie {
			e.cookie = c
		}
	}

	return rec
}

func (e *testEnv) state(t *testing.T) (view.State, map[string]any) {
	t.Helper()
	rec := e.do(t, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		State struct {
			Panel           string             `json:"panel"`
			Language        models.Language    `json:"language"`
			DarkMode        bool               `json:"darkMode"`
			SearchText      string             `json:"searchText"`
			Center          models.Coordinates `json:"center"`
			InitialPosition view.Preset        `json:"initialPosition"`
		} `json:"state"`
		Display map[string]any `json:"display"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	panels := map[string]view.Panel{"map": view.PanelMap, "settings": view.PanelSettings, "contact": view.PanelContact}
	panel, ok := panels[payload.State.Panel]
	require.True(t, ok, "unexpected panel %q", payload.State.Panel)

	return view.State{
		Panel:           panel,
		Language:        payload.State.Language,
		DarkMode:        payload.State.DarkMode,
		SearchText:      payload.State.SearchText,
		Center:          payload.State.Center,
		InitialPosition: payload.State.InitialPosition,
	}, payload.Display
}

func TestIndex(t *testing.T) {
	t.Run("issues a session cookie and renders the map", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Where are you going during the day?")
		require.NotNil(t, env.cookie)
		assert.True(t, env.cookie.HttpOnly)
		assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.ActiveSessions), 0)
	})

	t.Run("japanese browsers start in japanese", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/", nil, "Accept-Language", "ja-JP,ja;q=0.9")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "お昼はどこ行く？")
	})

	t.Run("keeps the session across requests", func(t *testing.T) {
		env := newTestEnv(t)

		env.do(t, http.MethodGet, "/", nil)
		first := env.cookie.Value
		env.do(t, http.MethodGet, "/", nil)

		assert.Equal(t, first, env.cookie.Value)
		assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.ActiveSessions), 0)
	})
}

func TestPanels(t *testing.T) {
	env := newTestEnv(t)

	steps := []struct {
		path string
		want view.Panel
	}{
		{"/panel/settings", view.PanelSettings},
		{"/panel/settings", view.PanelMap},
		{"/panel/contact", view.PanelContact},
		{"/panel/settings", view.PanelSettings},
		{"/panel/contact", view.PanelContact},
		{"/panel/home", view.PanelMap},
	}

	for _, step := range steps {
		rec := env.do(t, http.MethodPost, step.path, url.Values{})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		state, _ := env.state(t)
		assert.Equal(t, step.want, state.Panel, step.path)
	}
}

func TestSettings(t *testing.T) {
	t.Run("tokyo then seattle", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/settings/position", url.Values{"preset": {"Tokyo"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		state, _ := env.state(t)
		assert.Equal(t, models.Coordinates{Latitude: 35.6812, Longitude: 139.7671}, state.Center)

		env.do(t, http.MethodPost, "/settings/position", url.Values{"preset": {"Seattle"}})
		state, _ = env.state(t)
		assert.Equal(t, models.Coordinates{Latitude: 47.6062, Longitude: -122.3321}, state.Center)
		assert.Equal(t, view.Seattle, state.InitialPosition)
	})

	t.Run("unknown preset is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/settings/position", url.Values{"preset": {"Paris"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"unknown initial position Paris"}`, rec.Body.String())
	})

	t.Run("language by label", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/settings/language", url.Values{"language": {"日本語"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)

		state, display := env.state(t)
		assert.Equal(t, models.Japanese, state.Language)
		assert.Equal(t, "ja", display["mapLocale"])
		assert.Equal(t, "お昼はどこ行く？", display["heading"])
	})

	t.Run("unknown language is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/settings/language", url.Values{"language": {"Klingon"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dark mode toggles twice back", func(t *testing.T) {
		env := newTestEnv(t)
		_, before := env.state(t)

		env.do(t, http.MethodPost, "/settings/dark-mode", url.Values{})
		state, display := env.state(t)
		assert.True(t, state.DarkMode)
		assert.Equal(t, "dark", display["rootClass"])
		assert.Equal(t, "Where are you going at night?", display["heading"])

		env.do(t, http.MethodPost, "/settings/dark-mode", url.Values{})
		_, after := env.state(t)
		assert.Equal(t, before, after)
	})
}

func TestContact(t *testing.T) {
	t.Run("valid message", func(t *testing.T) {
		env := newTestEnv(t)
		env.do(t, http.MethodPost, "/panel/contact", url.Values{})

		rec := env.do(t, http.MethodPost, "/contact", url.Values{
			"name":    {"Aiko"},
			"email":   {"aiko@example.com"},
			"message": {"The lighting on 3rd Ave is out."},
		})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?sent=1", rec.Header().Get("Location"))
		assert.InDelta(t, 1, testutil.ToFloat64(env.metrics.ContactMessages), 0)

		page := env.do(t, http.MethodGet, "/?sent=1", nil)
		assert.Contains(t, page.Body.String(), "Thank you for your message.")
	})

	t.Run("personal data stays out of info logs", func(t *testing.T) {
		env := newTestEnv(t)

		env.do(t, http.MethodPost, "/contact", url.Values{
			"name":    {"Aiko Tanaka"},
			"email":   {"aiko@example.com"},
			"message": {"Meet me by the dark alley"},
		})

		logs := env.logs.String()
		assert.Contains(t, logs, "Contact message received")
		assert.Contains(t, logs, "email_domain=example.com")
		assert.NotContains(t, logs, "aiko@example.com")
		assert.NotContains(t, logs, "Aiko Tanaka")
		assert.NotContains(t, logs, "dark alley")
	})

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing name", url.Values{"email": {"a@b.co"}, "message": {"hi"}}},
		{"bad email", url.Values{"name": {"A"}, "email": {"nope"}, "message": {"hi"}}},
		{"message too long", url.Values{"name": {"A"}, "email": {"a@b.co"}, "message": {strings.Repeat("あ", 201)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.do(t, http.MethodPost, "/panel/contact", url.Values{})

			rec := env.do(t, http.MethodPost, "/contact", tt.form)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/?invalid=1", rec.Header().Get("Location"))
			assert.InDelta(t, 0, testutil.ToFloat64(env.metrics.ContactMessages), 0)

			page := env.do(t, http.MethodGet, "/?invalid=1", nil)
			assert.Contains(t, page.Body.String(), "Please check the form and try again.")
		})
	}

	t.Run("200 japanese characters fit", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/contact", url.Values{
			"name": {"A"}, "email": {"a@b.co"}, "message": {strings.Repeat("あ", 200)},
		})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestSearch(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		env := newTestEnv(t)
		want := &models.Coordinates{Latitude: 35.6812, Longitude: 139.7671}
		env.provider.On("Geocode", mock.Anything, "Tokyo Station", models.English).Return(want, nil).Once()

		rec := env.do(t, http.MethodPost, "/api/search", url.Values{"q": {"Tokyo Station"}})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"center":{"latitude":35.6812,"longitude":139.7671},"applied":true}`, rec.Body.String())
		state, _ := env.state(t)
		assert.Equal(t, *want, state.Center)
		assert.Equal(t, "Tokyo Station", state.SearchText)
	})

	t.Run("not found in japanese keeps the center", func(t *testing.T) {
		env := newTestEnv(t)
		env.do(t, http.MethodPost, "/settings/language", url.Values{"language": {"ja"}})
		env.provider.On("Geocode", mock.Anything, "Atlantis", models.Japanese).Return(nil, geocoding.ErrNotFound).Once()

		rec := env.do(t, http.MethodPost, "/api/search", url.Values{"q": {"Atlantis"}})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"場所が見つかりませんでした！"}`, rec.Body.String())
		state, _ := env.state(t)
		assert.Equal(t, models.Coordinates{Latitude: 47.6062, Longitude: -122.3321}, state.Center)
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		env := newTestEnv(t)
		env.provider.On("Geocode", mock.Anything, "Seattle", models.English).Return(nil, assert.AnError).Once()

		rec := env.do(t, http.MethodPost, "/api/search", url.Values{"q": {"Seattle"}})

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.JSONEq(t, `{"error":"geocoding request failed"}`, rec.Body.String())
	})

	t.Run("empty query", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/search", url.Values{"q": {"  "}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStreetsAPI(t *testing.T) {
	env := newTestEnv(t)
	env.store.Commit(env.store.Begin(), []models.StreetRecord{{
		ID:    "7",
		Name:  "Pike St",
		Color: "#00ff00",
		Score: 2,
		Path:  []models.Coordinates{{Latitude: 47.61, Longitude: -122.33}, {Latitude: 47.62, Longitude: -122.34}},
	}})

	t.Run("overlays", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/streets", nil, "Origin", "https://example.com")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.JSONEq(t, `[{"path":[{"lat":47.61,"lng":-122.33},{"lat":47.62,"lng":-122.34}],
			"strokeColor":"#00ff00","strokeOpacity":0.1,"strokeWeight":6}]`, rec.Body.String())
	})

	t.Run("geojson", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/streets.geojson", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"type":"FeatureCollection","features":[{"type":"Feature",
			"geometry":{"type":"LineString","coordinates":[[-122.33,47.61],[-122.34,47.62]]},
			"properties":{"id":"7","name":"Pike St","color":"#00ff00","score":2}}]}`, rec.Body.String())
	})

	t.Run("empty store renders an empty list", func(t *testing.T) {
		empty := newTestEnv(t)

		rec := empty.do(t, http.MethodGet, "/api/streets", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestStreetsLoadedAfterPageRender(t *testing.T) {
	env := newTestEnv(t)

	page := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "streetsUrl")

	env.store.Commit(env.store.Begin(), []models.StreetRecord{{
		Name:  "Late St",
		Color: "#0000ff",
		Path:  []models.Coordinates{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}},
	}})

	rec := env.do(t, http.MethodGet, render.StreetsPath, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#0000ff")
}

package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dileep-u-k/weather-chat/internal/mcp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves /mcp from a per-method response table and /capabilities
// from the static document.
func fakeServer(t *testing.T, responses map[string]mcp.Response) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		var req mcp.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp, ok := responses[req.Method]
		if !ok {
			resp = mcp.Response{Error: "Unknown method: " + req.Method}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	mux.HandleFunc("/capabilities", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(mcp.Capabilities()))
	})
	return httptest.NewServer(mux)
}

func TestCurrentFormatsReport(t *testing.T) {
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetCurrent: {Result: mcp.CurrentReport{
			City:    "London",
			Country: "GB",
			Temperature: mcp.Temperature{
				Current:   15.5,
				FeelsLike: 14.2,
			},
			Humidity:    72,
			Description: "light rain",
			Wind:        mcp.Wind{Speed: 4.6, Direction: 250.0},
		}},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Current(context.Background(), "London", "GB")
	require.NoError(t, err)

	want := strings.Join([]string{
		"Current weather in London, GB:",
		"• Temperature: 15.5°C (feels like 14.2°C)",
		"• Conditions: light rain",
		"• Humidity: 72%",
		"• Wind Speed: 4.6 m/s",
	}, "\n")
	assert.Equal(t, want, text)
}

func TestCurrentTransportError(t *testing.T) {
	svc := NewService("http://127.0.0.1:1") // nothing listening
	text, err := svc.Current(context.Background(), "London", "")
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(text, "Error getting weather: "), "got %q", text)
}

func TestCurrentEnvelopeError(t *testing.T) {
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetCurrent: {Error: "City parameter is required"},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Current(context.Background(), "London", "")
	assert.Error(t, err)
	assert.Equal(t, "Error getting weather: City parameter is required", text)
}

func TestCurrentNestedError(t *testing.T) {
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetCurrent: {Result: mcp.ErrorResult{Error: "Failed to fetch weather data: upstream returned status 404"}},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Current(context.Background(), "Nowhere", "")
	assert.Error(t, err)
	assert.Equal(t, "Weather service error: Failed to fetch weather data: upstream returned status 404", text)
}

func forecastEntry(datetime string, temp float64, description string) mcp.ForecastEntry {
	return mcp.ForecastEntry{
		Datetime:    datetime,
		Temperature: mcp.Temperature{Current: temp},
		Description: description,
	}
}

func TestForecastAggregatesPerDate(t *testing.T) {
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetForecast: {Result: mcp.ForecastReport{
			City:    "Rome",
			Country: "IT",
			Forecast: []mcp.ForecastEntry{
				forecastEntry("2026-08-28 09:00:00", 10, "clear sky"),
				forecastEntry("2026-08-28 12:00:00", 12, "few clouds"),
				forecastEntry("2026-08-28 15:00:00", 14, "clear sky"),
				forecastEntry("2026-08-29 09:00:00", 20, "rain"),
				forecastEntry("2026-08-29 12:00:00", 22, "rain"),
			},
		}},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Forecast(context.Background(), "Rome", "IT", 3)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Weather forecast for Rome, IT:"), "got %q", text)
	assert.Contains(t, text, "📅 2026-08-28:\n   Temperature: 12.0°C (min: 10.0°C, max: 14.0°C)\n   Conditions: clear sky")
	assert.Contains(t, text, "📅 2026-08-29:\n   Temperature: 21.0°C (min: 20.0°C, max: 22.0°C)\n   Conditions: rain")
	assert.Less(t, strings.Index(text, "2026-08-28"), strings.Index(text, "2026-08-29"), "dates must keep first-seen order")
}

func TestForecastBoundedToRequestedDays(t *testing.T) {
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetForecast: {Result: mcp.ForecastReport{
			City:    "Rome",
			Country: "IT",
			Forecast: []mcp.ForecastEntry{
				forecastEntry("2026-08-28 09:00:00", 10, "clear sky"),
				forecastEntry("2026-08-29 09:00:00", 20, "rain"),
				forecastEntry("2026-08-30 09:00:00", 30, "clear sky"),
			},
		}},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Forecast(context.Background(), "Rome", "IT", 2)
	require.NoError(t, err)

	assert.Contains(t, text, "2026-08-28")
	assert.Contains(t, text, "2026-08-29")
	assert.NotContains(t, text, "2026-08-30")
}

func TestForecastDescriptionTieBreak(t *testing.T) {
	// "few clouds" and "rain" each appear twice; the earlier first
	// occurrence wins.
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetForecast: {Result: mcp.ForecastReport{
			City:    "Rome",
			Country: "IT",
			Forecast: []mcp.ForecastEntry{
				forecastEntry("2026-08-28 06:00:00", 10, "few clouds"),
				forecastEntry("2026-08-28 09:00:00", 11, "rain"),
				forecastEntry("2026-08-28 12:00:00", 12, "rain"),
				forecastEntry("2026-08-28 15:00:00", 13, "few clouds"),
			},
		}},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Forecast(context.Background(), "Rome", "IT", 1)
	require.NoError(t, err)
	assert.Contains(t, text, "Conditions: few clouds")
}

func TestForecastNestedError(t *testing.T) {
	ts := fakeServer(t, map[string]mcp.Response{
		mcp.MethodGetForecast: {Result: mcp.ErrorResult{Error: "Failed to fetch forecast data: timeout"}},
	})
	defer ts.Close()

	svc := NewService(ts.URL)
	text, err := svc.Forecast(context.Background(), "Rome", "", 3)
	assert.Error(t, err)
	assert.Equal(t, "Forecast service error: Failed to fetch forecast data: timeout", text)
}

func TestCapabilities(t *testing.T) {
	ts := fakeServer(t, nil)
	defer ts.Close()

	svc := NewService(ts.URL)
	doc, err := svc.Capabilities(context.Background())
	require.NoError(t, err)

	require.Len(t, doc.Methods, 2)
	assert.Contains(t, doc.Methods, mcp.MethodGetCurrent)
	assert.Contains(t, doc.Methods, mcp.MethodGetForecast)
}

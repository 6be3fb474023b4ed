// Package gateway implements the weather server's request handling: method
// dispatch for the /mcp envelope, parameter validation, the upstream
// OpenWeatherMap calls, and normalization of upstream payloads into the wire
// schema defined in internal/mcp.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/mcp"

	"github.com/go-playground/validator/v10"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Upstream calls use a short fixed timeout; a timeout is reported the same
// way as any other fetch failure.
const upstreamTimeout = 10 * time.Second

// Handler resolves /mcp requests against the OpenWeatherMap API.
type Handler struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// New creates a Handler. The OpenWeatherMap API key is required.
func New(apiKey string) (*Handler, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenWeatherMap API key cannot be empty")
	}
	return &Handler{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: upstreamTimeout,
		},
		validate: validator.New(),
	}, nil
}

type currentParams struct {
	City        string `json:"city" validate:"required"`
	CountryCode string `json:"country_code"`
}

type forecastParams struct {
	City        string `json:"city" validate:"required"`
	CountryCode string `json:"country_code"`
	Days        int    `json:"days"`
}

// Handle dispatches a single request envelope. Upstream failures never
// surface as transport errors: they are folded into a nested error result so
// the client can report them as ordinary text.
func (h *Handler) Handle(ctx context.Context, req mcp.Request) mcp.Response {
	switch req.Method {
	case mcp.MethodGetCurrent:
		var p currentParams
		if err := decodeParams(req.Params, &p); err != nil {
			return mcp.Response{Error: "City parameter is required"}
		}
		if err := h.validate.Struct(p); err != nil {
			return mcp.Response{Error: "City parameter is required"}
		}
		return mcp.Response{Result: h.fetchCurrent(ctx, p.City, p.CountryCode)}

	case mcp.MethodGetForecast:
		p := forecastParams{Days: 5}
		if err := decodeParams(req.Params, &p); err != nil {
			return mcp.Response{Error: "City parameter is required"}
		}
		if err := h.validate.Struct(p); err != nil {
			return mcp.Response{Error: "City parameter is required"}
		}
		return mcp.Response{Result: h.fetchForecast(ctx, p.City, p.CountryCode, p.Days)}

	default:
		return mcp.Response{Error: fmt.Sprintf("Unknown method: %s", req.Method)}
	}
}

// decodeParams round-trips the loosely-typed params map into a typed struct.
func decodeParams(params map[string]any, dst any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// locationQuery builds the upstream `q` parameter: "city" or "city,CC".
func locationQuery(city, countryCode string) string {
	if countryCode != "" {
		return fmt.Sprintf("%s,%s", city, countryCode)
	}
	return city
}

// fetchCurrent calls the upstream current-weather endpoint and normalizes
// the payload. Any failure is returned as a nested error result.
func (h *Handler) fetchCurrent(ctx context.Context, city, countryCode string) any {
	values := url.Values{}
	values.Set("q", locationQuery(city, countryCode))
	values.Set("appid", h.apiKey)
	values.Set("units", "metric")

	body, err := h.get(ctx, h.baseURL+"/weather", values)
	if err != nil {
		log.Printf("error fetching weather data: %v", err)
		return mcp.ErrorResult{Error: fmt.Sprintf("Failed to fetch weather data: %v", err)}
	}

	var payload struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64  `json:"speed"`
			Deg   *float64 `json:"deg"`
		} `json:"wind"`
		Visibility *float64 `json:"visibility"`
		Clouds     struct {
			All float64 `json:"all"`
		} `json:"clouds"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("unexpected API response format: %v", err)
		return mcp.ErrorResult{Error: "Unexpected API response format"}
	}
	if payload.Name == "" || len(payload.Weather) == 0 {
		log.Printf("unexpected API response format: missing expected fields")
		return mcp.ErrorResult{Error: "Unexpected API response format"}
	}

	return mcp.CurrentReport{
		City:    payload.Name,
		Country: payload.Sys.Country,
		Temperature: mcp.Temperature{
			Current:   payload.Main.Temp,
			FeelsLike: payload.Main.FeelsLike,
			Min:       payload.Main.TempMin,
			Max:       payload.Main.TempMax,
		},
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		Description: payload.Weather[0].Description,
		Icon:        payload.Weather[0].Icon,
		Wind: mcp.Wind{
			Speed:     payload.Wind.Speed,
			Direction: optionalNumber(payload.Wind.Deg),
		},
		Visibility: optionalNumber(payload.Visibility),
		Clouds:     payload.Clouds.All,
	}
}

// fetchForecast calls the upstream 3-hour forecast endpoint. The provider
// returns 8 buckets per day, capped at 40 entries; buckets are passed through
// unaggregated.
func (h *Handler) fetchForecast(ctx context.Context, city, countryCode string, days int) any {
	cnt := days * 8
	if cnt > 40 {
		cnt = 40
	}

	values := url.Values{}
	values.Set("q", locationQuery(city, countryCode))
	values.Set("appid", h.apiKey)
	values.Set("units", "metric")
	values.Set("cnt", strconv.Itoa(cnt))

	body, err := h.get(ctx, h.baseURL+"/forecast", values)
	if err != nil {
		log.Printf("error fetching forecast data: %v", err)
		return mcp.ErrorResult{Error: fmt.Sprintf("Failed to fetch forecast data: %v", err)}
	}

	var payload struct {
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"city"`
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp      float64 `json:"temp"`
				FeelsLike float64 `json:"feels_like"`
				TempMin   float64 `json:"temp_min"`
				TempMax   float64 `json:"temp_max"`
				Humidity  float64 `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Clouds struct {
				All float64 `json:"all"`
			} `json:"clouds"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("unexpected forecast response: %v", err)
		return mcp.ErrorResult{Error: fmt.Sprintf("Unexpected error: %v", err)}
	}
	if payload.City.Name == "" {
		log.Printf("forecast response missing city block")
		return mcp.ErrorResult{Error: "Unexpected API response format"}
	}

	entries := make([]mcp.ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		entry := mcp.ForecastEntry{
			Datetime: item.DtTxt,
			Temperature: mcp.Temperature{
				Current:   item.Main.Temp,
				FeelsLike: item.Main.FeelsLike,
				Min:       item.Main.TempMin,
				Max:       item.Main.TempMax,
			},
			Humidity:  item.Main.Humidity,
			WindSpeed: item.Wind.Speed,
			Clouds:    item.Clouds.All,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		entries = append(entries, entry)
	}

	return mcp.ForecastReport{
		City:     payload.City.Name,
		Country:  payload.City.Country,
		Forecast: entries,
	}
}

// get issues a single GET to the upstream API. There is no retry: one attempt
// per request, and the caller turns failures into error results.
func (h *Handler) get(ctx context.Context, endpoint string, values url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "weather-chat/1.0")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}
	return body, nil
}

// optionalNumber maps a possibly-missing upstream number onto the wire
// schema's number-or-"N/A" convention.
func optionalNumber(v *float64) any {
	if v == nil {
		return "N/A"
	}
	return *v
}

// Package weather is the chatbot-side client for the weather server. It
// issues one request per call over the /mcp envelope and renders results into
// the text blocks shown to the user.
package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/mcp"
)

// Service is a typed façade over the weather server. Each call opens a fresh
// request; there is no pooling or retry contract.
type Service struct {
	baseURL    string
	httpClient *http.Client
}

// NewService creates a client for the weather server at baseURL
// (e.g. "http://localhost:8000").
func NewService(baseURL string) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Current fetches and renders the current weather for a city. The returned
// string is always displayable; on failure it is an error sentence and the
// error return is non-nil so callers can substitute their own wording.
func (s *Service) Current(ctx context.Context, city, countryCode string) (string, error) {
	params := map[string]any{"city": city}
	if countryCode != "" {
		params["country_code"] = countryCode
	}

	result, errText := s.invoke(ctx, mcp.MethodGetCurrent, params)
	if errText != "" {
		return "Error getting weather: " + errText, fmt.Errorf("weather lookup failed: %s", errText)
	}
	if nested := nestedError(result); nested != "" {
		return "Weather service error: " + nested, fmt.Errorf("weather lookup failed: %s", nested)
	}

	var report mcp.CurrentReport
	if err := json.Unmarshal(result, &report); err != nil {
		return "Error getting weather: invalid response from weather service", fmt.Errorf("malformed weather result: %w", err)
	}

	return formatCurrent(report), nil
}

// Forecast fetches the 3-hour forecast buckets for a city and renders them as
// one block per calendar date, bounded to the requested number of days.
func (s *Service) Forecast(ctx context.Context, city, countryCode string, days int) (string, error) {
	params := map[string]any{"city": city, "days": days}
	if countryCode != "" {
		params["country_code"] = countryCode
	}

	result, errText := s.invoke(ctx, mcp.MethodGetForecast, params)
	if errText != "" {
		return "Error getting forecast: " + errText, fmt.Errorf("forecast lookup failed: %s", errText)
	}
	if nested := nestedError(result); nested != "" {
		return "Forecast service error: " + nested, fmt.Errorf("forecast lookup failed: %s", nested)
	}

	var report mcp.ForecastReport
	if err := json.Unmarshal(result, &report); err != nil {
		return "Error getting forecast: invalid response from weather service", fmt.Errorf("malformed forecast result: %w", err)
	}

	return formatForecast(report, days), nil
}

// Capabilities fetches the server's static capability document.
func (s *Service) Capabilities(ctx context.Context) (mcp.CapabilitiesDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/capabilities", nil)
	if err != nil {
		return mcp.CapabilitiesDocument{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return mcp.CapabilitiesDocument{}, fmt.Errorf("failed to get capabilities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mcp.CapabilitiesDocument{}, fmt.Errorf("capabilities request returned status %d", resp.StatusCode)
	}

	var doc mcp.CapabilitiesDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return mcp.CapabilitiesDocument{}, fmt.Errorf("failed to decode capabilities: %w", err)
	}
	return doc, nil
}

// invoke POSTs one request envelope and returns the raw result, or an error
// string covering both connection failures and envelope-level errors.
func (s *Service) invoke(ctx context.Context, method string, params map[string]any) (json.RawMessage, string) {
	payload, err := json.Marshal(mcp.Request{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Sprintf("Unexpected error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mcp", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Sprintf("Unexpected error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("Failed to connect to MCP server: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Sprintf("Failed to connect to MCP server: status %d", resp.StatusCode)
	}

	var env mcp.ResultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Sprintf("Unexpected error: %v", err)
	}
	if env.Error != "" {
		return nil, env.Error
	}
	return env.Result, ""
}

// nestedError probes a result payload for the {"error": ...} failure shape.
func nestedError(result json.RawMessage) string {
	var probe mcp.ErrorResult
	if err := json.Unmarshal(result, &probe); err != nil {
		return ""
	}
	return probe.Error
}

// formatCurrent renders the fixed multi-line current-weather block.
func formatCurrent(report mcp.CurrentReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current weather in %s, %s:\n", report.City, report.Country)
	fmt.Fprintf(&b, "• Temperature: %s°C (feels like %s°C)\n", num(report.Temperature.Current), num(report.Temperature.FeelsLike))
	fmt.Fprintf(&b, "• Conditions: %s\n", report.Description)
	fmt.Fprintf(&b, "• Humidity: %s%%\n", num(report.Humidity))
	fmt.Fprintf(&b, "• Wind Speed: %s m/s", num(report.Wind.Speed))
	return b.String()
}

// formatForecast groups the flat entry list by the date prefix of each
// entry's timestamp, in first-seen order, and emits one aggregated block per
// date for up to `days` distinct dates. Within a date the block reports the
// arithmetic mean, min and max of the current-temperature readings and the
// most frequent description; ties on the description count resolve to the
// one whose first occurrence appears earliest.
func formatForecast(report mcp.ForecastReport, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s, %s:\n\n", report.City, report.Country)

	var order []string
	byDate := make(map[string][]mcp.ForecastEntry)
	for _, entry := range report.Forecast {
		date := entry.Datetime
		if i := strings.IndexByte(date, ' '); i >= 0 {
			date = date[:i]
		}
		if _, seen := byDate[date]; !seen {
			order = append(order, date)
		}
		byDate[date] = append(byDate[date], entry)
	}

	if len(order) > days {
		order = order[:days]
	}

	for _, date := range order {
		entries := byDate[date]

		sum := 0.0
		minTemp := entries[0].Temperature.Current
		maxTemp := entries[0].Temperature.Current
		counts := make(map[string]int)
		var descOrder []string
		for _, e := range entries {
			t := e.Temperature.Current
			sum += t
			if t < minTemp {
				minTemp = t
			}
			if t > maxTemp {
				maxTemp = t
			}
			if _, seen := counts[e.Description]; !seen {
				descOrder = append(descOrder, e.Description)
			}
			counts[e.Description]++
		}
		avgTemp := sum / float64(len(entries))

		// First-seen order plus a strictly-greater comparison makes the
		// most-common pick deterministic for tied counts.
		bestDesc := ""
		bestCount := 0
		for _, desc := range descOrder {
			if counts[desc] > bestCount {
				bestCount = counts[desc]
				bestDesc = desc
			}
		}

		fmt.Fprintf(&b, "📅 %s:\n", date)
		fmt.Fprintf(&b, "   Temperature: %.1f°C (min: %.1f°C, max: %.1f°C)\n", avgTemp, minTemp, maxTemp)
		fmt.Fprintf(&b, "   Conditions: %s\n\n", bestDesc)
	}

	return strings.TrimSpace(b.String())
}

// num renders a reading without trailing zeros (15.5 -> "15.5", 72 -> "72").
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

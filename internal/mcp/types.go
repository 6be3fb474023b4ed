// Package mcp defines the wire protocol spoken between the chatbot and the
// weather server: a method/params request envelope posted to /mcp, a
// result-or-error response envelope, and the normalized weather schema
// carried inside successful results.
//
// Using typed structures here instead of `map[string]interface{}` keeps the
// schema explicit on both sides of the wire and makes malformed payloads a
// decode error rather than a silent nil lookup.
package mcp

import "encoding/json"

// Method names recognized by the weather server.
const (
	MethodGetCurrent  = "weather/get_current"
	MethodGetForecast = "weather/get_forecast"
)

// Request is the envelope POSTed to the /mcp endpoint.
type Request struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// Response is the envelope returned by the /mcp endpoint. Exactly one of
// Result and Error is populated. A populated Result may still carry a nested
// {"error": ...} object when the upstream weather lookup itself failed;
// clients must check both levels.
type Response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ResultEnvelope mirrors Response on the decoding side, leaving the result
// payload opaque so callers can probe for a nested error before committing
// to a concrete report shape.
type ResultEnvelope struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ErrorResult is the nested failure payload produced when the server reached
// the transport fine but the upstream weather lookup failed.
type ErrorResult struct {
	Error string `json:"error"`
}

// Temperature groups the temperature readings of a single observation.
type Temperature struct {
	Current   float64 `json:"current"`
	FeelsLike float64 `json:"feels_like"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Wind holds wind readings. Direction is the bearing in degrees when the
// upstream reported one, or the string "N/A" when it did not.
type Wind struct {
	Speed     float64 `json:"speed"`
	Direction any     `json:"direction"`
}

// CurrentReport is the normalized shape of a weather/get_current result.
// Visibility is metres, or the string "N/A" when the upstream omitted it.
type CurrentReport struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Temperature Temperature `json:"temperature"`
	Humidity    float64     `json:"humidity"`
	Pressure    float64     `json:"pressure"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Wind        Wind        `json:"wind"`
	Visibility  any         `json:"visibility"`
	Clouds      float64     `json:"clouds"`
}

// ForecastEntry is one 3-hour forecast bucket as returned by the upstream
// provider. Entries are passed through unaggregated; grouping into daily
// buckets is the client's job.
type ForecastEntry struct {
	Datetime    string      `json:"datetime"`
	Temperature Temperature `json:"temperature"`
	Humidity    float64     `json:"humidity"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	WindSpeed   float64     `json:"wind_speed"`
	Clouds      float64     `json:"clouds"`
}

// ForecastReport is the normalized shape of a weather/get_forecast result.
type ForecastReport struct {
	City     string          `json:"city"`
	Country  string          `json:"country"`
	Forecast []ForecastEntry `json:"forecast"`
}

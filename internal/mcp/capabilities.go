package mcp

// ParameterSpec describes a single method parameter in the capabilities
// document.
type ParameterSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// MethodSpec describes one supported method and its parameters.
type MethodSpec struct {
	Description string                   `json:"description"`
	Parameters  map[string]ParameterSpec `json:"parameters"`
}

// CapabilitiesDocument is the static description of the server's supported
// methods, served on GET /capabilities.
type CapabilitiesDocument struct {
	Methods map[string]MethodSpec `json:"methods"`
}

// Capabilities returns the server's capability document.
func Capabilities() CapabilitiesDocument {
	return CapabilitiesDocument{
		Methods: map[string]MethodSpec{
			MethodGetCurrent: {
				Description: "Get current weather for a city",
				Parameters: map[string]ParameterSpec{
					"city":         {Type: "string", Description: "City name"},
					"country_code": {Type: "string", Description: "Optional country code"},
				},
			},
			MethodGetForecast: {
				Description: "Get weather forecast for a city",
				Parameters: map[string]ParameterSpec{
					"city":         {Type: "string", Description: "City name"},
					"country_code": {Type: "string", Description: "Optional country code"},
					"days":         {Type: "integer", Description: "Number of days (max 5)"},
				},
			},
		},
	}
}

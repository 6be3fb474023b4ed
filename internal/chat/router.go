// Package chat owns the conversation: history, query classification, weather
// lookups and reply composition.
package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/dileep-u-k/weather-chat/internal/llm"

	"github.com/google/uuid"
)

const systemPrompt = `You are a helpful AI assistant with access to real-time weather information. You can:

1. Answer general questions and engage in conversation
2. Provide current weather information for any city
3. Provide weather forecasts for upcoming days
4. Help with weather-related planning and advice

When users ask about weather, you can access real-time data through the weather service. Be conversational and helpful, and provide detailed weather information when requested.

For weather queries, you can ask for:
- Current weather in a specific city
- Weather forecasts for upcoming days
- Weather comparisons between cities
- Weather-based recommendations

Always be friendly, informative, and helpful!`

const (
	clarificationReply = "I'd be happy to help with weather information! Please specify a city name. For example: 'What's the weather in London?' or 'Weather in New York'"
	modelFailureReply  = "I'm sorry, I'm having trouble processing your request right now. Please try again later."
	resetReply         = "Conversation history has been reset. How can I help you today?"
)

// historyWindow bounds the history suffix passed to the model; the full
// history itself grows unbounded within a session.
const historyWindow = 10

// Fixed sampling parameters for every model call.
const maxReplyTokens = 500

var replyTemperature = float32(0.7)

// WeatherProvider is the router's view of the weather client. The returned
// string is always displayable; a non-nil error marks it as a failure the
// router replaces with its own apology.
type WeatherProvider interface {
	Current(ctx context.Context, city, countryCode string) (string, error)
	Forecast(ctx context.Context, city, countryCode string, days int) (string, error)
}

// Turn is one entry in the conversation history.
type Turn struct {
	Role llm.Role
	Text string
}

// Router handles one conversation. It owns the history exclusively and
// processes one message at a time; independent Router instances share no
// state.
type Router struct {
	id         string
	llmClient  llm.Client
	weather    WeatherProvider
	classifier *Classifier
	model      string
	history    []Turn
}

// NewRouter creates a router for a single conversation session.
func NewRouter(llmClient llm.Client, weather WeatherProvider, classifier *Classifier, model string) *Router {
	return &Router{
		id:         uuid.NewString(),
		llmClient:  llmClient,
		weather:    weather,
		classifier: classifier,
		model:      model,
	}
}

// Handle processes one user message and returns the reply. All failures are
// absorbed into fixed user-facing text; Handle never returns an error.
func (r *Router) Handle(ctx context.Context, message string) string {
	r.history = append(r.history, Turn{Role: llm.RoleUser, Text: message})

	var weatherText string
	if r.classifier.IsWeatherQuery(message) {
		query, ok := r.classifier.DetectQuery(message)
		if !ok {
			// No city to look up: answer with the clarification prompt
			// without touching either provider.
			log.Printf("[session %s] weather query without a location", r.id)
			r.history = append(r.history, Turn{Role: llm.RoleAssistant, Text: clarificationReply})
			return clarificationReply
		}
		weatherText = r.lookupWeather(ctx, query)
	}

	reply := r.generateReply(ctx, message, weatherText)

	final := reply
	if weatherText != "" {
		final = weatherText + "\n\n" + reply
	}

	r.history = append(r.history, Turn{Role: llm.RoleAssistant, Text: final})
	return final
}

// Reset clears the conversation history and returns the acknowledgement.
func (r *Router) Reset() string {
	r.history = nil
	return resetReply
}

// History returns a copy of the full conversation history.
func (r *Router) History() []Turn {
	out := make([]Turn, len(r.history))
	copy(out, r.history)
	return out
}

// lookupWeather performs a single weather call for the query. On any failure
// it returns a fixed apology naming the city; the provider's own error text
// is logged, never shown.
func (r *Router) lookupWeather(ctx context.Context, query Query) string {
	var (
		text string
		err  error
	)
	switch query.Kind {
	case KindForecast:
		log.Printf("[session %s] forecast lookup: city=%s country=%s days=%d", r.id, query.City, query.CountryCode, query.Days)
		text, err = r.weather.Forecast(ctx, query.City, query.CountryCode, query.Days)
	default:
		log.Printf("[session %s] current-weather lookup: city=%s country=%s", r.id, query.City, query.CountryCode)
		text, err = r.weather.Current(ctx, query.City, query.CountryCode)
	}
	if err != nil {
		log.Printf("[session %s] weather lookup failed: %v", r.id, err)
		return fmt.Sprintf("I'm sorry, I couldn't get the weather information for %s. Please try again or check if the city name is correct.", query.City)
	}
	return text
}

// generateReply builds the model request and returns its completion, or the
// fixed fallback text on failure. The request is the persona prompt, an
// optional weather-context message, the bounded history suffix, and the
// current user message.
func (r *Router) generateReply(ctx context.Context, message, weatherText string) string {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	if weatherText != "" {
		messages = append(messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: "Here is the current weather information that was requested: " + weatherText,
		})
	}

	suffix := r.history
	if len(suffix) > historyWindow {
		suffix = suffix[len(suffix)-historyWindow:]
	}
	for _, turn := range suffix {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Text})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	temp := replyTemperature
	result, err := r.llmClient.Generate(ctx, messages, &llm.GenerationConfig{
		Model:       r.model,
		Temperature: &temp,
		MaxTokens:   maxReplyTokens,
	})
	if err != nil {
		log.Printf("[session %s] model call failed: %v", r.id, err)
		return modelFailureReply
	}
	return result.Content
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient talks to Google's Gemini models through the official SDK.
type GeminiClient struct {
	model *genai.GenerativeModel
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a configured client for the given Gemini model.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{model: client.GenerativeModel(modelID)}, nil
}

// Generate performs a single blocking request to the Gemini API. System
// messages become the model's system instruction; the remaining history is
// replayed as a chat with the final user message sent last.
func (c *GeminiClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig) (*GenerationResult, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages to send")
	}

	if config != nil {
		if config.Temperature != nil {
			c.model.SetTemperature(*config.Temperature)
		}
		if config.MaxTokens > 0 {
			c.model.SetMaxOutputTokens(int32(config.MaxTokens))
		}
	}

	system, chatHistory := splitGeminiMessages(messages)
	if system != "" {
		c.model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	last := messages[len(messages)-1]
	chat := c.model.StartChat()
	chat.History = chatHistory

	resp, err := chat.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return parseGeminiResponse(resp)
}

// splitGeminiMessages separates system messages (joined into one instruction)
// from the conversational history, excluding the final message which is sent
// through the chat session itself.
func splitGeminiMessages(messages []Message) (string, []*genai.Content) {
	var systemParts []string
	var history []*genai.Content

	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case RoleUser, RoleAssistant:
			if i == len(messages)-1 {
				continue
			}
			role := "user"
			if msg.Role == RoleAssistant {
				role = "model"
			}
			history = append(history, &genai.Content{
				Role:  role,
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		}
	}

	return strings.Join(systemParts, "\n\n"), history
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) (*GenerationResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no candidates returned from Gemini")
	}

	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			content.WriteString(string(txt))
		}
	}
	return &GenerationResult{Content: content.String()}, nil
}

package main

import (
	"fmt"
	"log"
	"os"
)

// Supported model providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ChatConfig holds the chatbot's configuration, loaded once at startup.
type ChatConfig struct {
	Provider             string
	OpenAIKey            string
	GeminiKey            string
	Model                string
	GatewayURL           string
	ClassifierConfigPath string
}

// LoadConfig reads the chatbot configuration from the environment. The model
// provider's API key is required; everything else has defaults.
func LoadConfig() (*ChatConfig, error) {
	cfg := &ChatConfig{
		Provider:             getenvDefault("LLM_PROVIDER", ProviderOpenAI),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		GeminiKey:            os.Getenv("GEMINI_API_KEY"),
		Model:                os.Getenv("CHAT_MODEL"),
		ClassifierConfigPath: os.Getenv("CLASSIFIER_CONFIG"),
	}

	host := getenvDefault("MCP_SERVER_HOST", "localhost")
	port := getenvDefault("MCP_SERVER_PORT", "8000")
	cfg.GatewayURL = fmt.Sprintf("http://%s:%s", host, port)

	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-3.5-turbo"
		}
	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		if cfg.Model == "" {
			cfg.Model = "gemini-1.5-flash"
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected %q or %q)", cfg.Provider, ProviderOpenAI, ProviderGemini)
	}

	log.Printf("✅ Configuration loaded (provider=%s, model=%s, gateway=%s)", cfg.Provider, cfg.Model, cfg.GatewayURL)
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// The chatbot is the interactive surface: a line-oriented prompt loop in
// front of the conversational router, with weather lookups served by the
// weather server and replies generated by the configured model provider.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/chat"
	"github.com/dileep-u-k/weather-chat/internal/llm"
	"github.com/dileep-u-k/weather-chat/internal/weather"

	"github.com/joho/godotenv"
	"github.com/peterh/liner"
)

const goodbye = "👋 Goodbye! Have a great day!"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: No .env file found, relying on system environment variables.")
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}

	weatherSvc := weather.NewService(cfg.GatewayURL)
	announceCapabilities(weatherSvc)

	router, err := buildRouter(cfg, weatherSvc)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	printBanner()
	runPromptLoop(router)
}

// announceCapabilities probes the weather server so a dead gateway shows up
// at startup instead of on the first lookup.
func announceCapabilities(svc *weather.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc, err := svc.Capabilities(ctx)
	if err != nil {
		log.Printf("⚠️ WARNING: weather server not reachable yet: %v", err)
		return
	}

	methods := make([]string, 0, len(doc.Methods))
	for name := range doc.Methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	log.Printf("✅ Weather server ready. Supported methods: %s", strings.Join(methods, ", "))
}

// buildRouter wires the router from the configured providers.
func buildRouter(cfg *ChatConfig, weatherSvc *weather.Service) (*chat.Router, error) {
	classifierCfg := chat.DefaultClassifierConfig()
	if cfg.ClassifierConfigPath != "" {
		var err error
		classifierCfg, err = chat.LoadClassifierConfig(cfg.ClassifierConfigPath)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Classifier configuration loaded from %s", cfg.ClassifierConfigPath)
	}
	classifier, err := chat.NewClassifier(classifierCfg)
	if err != nil {
		return nil, err
	}

	var llmClient llm.Client
	switch cfg.Provider {
	case ProviderGemini:
		llmClient, err = llm.NewGeminiClient(context.Background(), cfg.GeminiKey, cfg.Model)
	default:
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIKey)
	}
	if err != nil {
		return nil, err
	}

	return chat.NewRouter(llmClient, weatherSvc, classifier, cfg.Model), nil
}

func printBanner() {
	fmt.Println("🌤️  Weather AI Chatbot")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("I'm your AI assistant with access to real-time weather information!")
	fmt.Println("You can ask me about:")
	fmt.Println("• Current weather in any city")
	fmt.Println("• Weather forecasts")
	fmt.Println("• General questions and conversation")
	fmt.Println("• Weather-based recommendations")
	fmt.Println("\nType 'quit' or 'exit' to end the conversation.")
	fmt.Println("Type 'reset' to clear conversation history.")
	fmt.Println(strings.Repeat("=", 50))
}

// runPromptLoop reads messages until the user quits. Control commands are
// handled here; everything else goes through the router. Unexpected faults
// are reported and end the loop instead of crashing silently.
func runPromptLoop(router *chat.Router) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	ctx := context.Background()
	for {
		input, err := line.Prompt("\n🤖 You: ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println("\n" + goodbye)
			return
		}
		if err != nil {
			log.Printf("❌ An error occurred: %v", err)
			fmt.Println(goodbye)
			return
		}

		input = strings.TrimSpace(input)
		switch strings.ToLower(input) {
		case "quit", "exit", "bye":
			fmt.Println(goodbye)
			return
		case "reset":
			fmt.Printf("🤖 Assistant: %s\n", router.Reset())
			continue
		case "":
			continue
		}

		line.AppendHistory(input)
		fmt.Println("🤖 Assistant: Thinking...")
		fmt.Printf("🤖 Assistant: %s\n", router.Handle(ctx, input))
	}
}

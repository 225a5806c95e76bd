package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"travel-assistant/internal/config"
	"travel-assistant/internal/flights"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/memory"
	"travel-assistant/internal/orchestrator"
	"travel-assistant/internal/storage"
	"travel-assistant/internal/tools"
)

// Interactive terminal front-end: one user, one session per run.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	cfg.RequireLLMCredentials()

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	store, err := memory.NewFileStore(cfg.MemoryFilePath)
	if err != nil {
		log.Fatalf("failed to init preference store: %v", err)
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	gateway := tools.NewGateway(store, flights.New())
	orch := orchestrator.New(llmClient, gateway, rec, readSystemPrompt(cfg.SystemPromptPath), cfg.AppName)

	userID := cfg.DefaultUserID
	sessionID := cfg.DefaultSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	orch.CreateSession(userID, sessionID)

	fmt.Println("--- Starting Interactive Travel Assistant ---")
	fmt.Println("Type 'quit' to end the session.")

	ctx := context.Background()
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !sc.Scan() {
			break
		}
		query := strings.TrimSpace(sc.Text())
		if query == "" {
			continue
		}
		if q := strings.ToLower(query); q == "quit" || q == "exit" {
			fmt.Println("Ending session. Goodbye!")
			break
		}

		reply, err := orch.HandleTurn(ctx, query, userID, sessionID)
		if err != nil {
			log.Printf("turn failed: %v", err)
			continue
		}
		fmt.Printf("<<< Assistant: %s\n", reply)
	}
}

func readSystemPrompt(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read system prompt from %s: %v", path, err)
		return ""
	}
	return string(data)
}

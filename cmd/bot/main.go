package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"travel-assistant/internal/config"
	"travel-assistant/internal/flights"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/memory"
	"travel-assistant/internal/orchestrator"
	"travel-assistant/internal/scheduler"
	"travel-assistant/internal/storage"
	"travel-assistant/internal/telegram"
	"travel-assistant/internal/tools"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	cfg.RequireLLMCredentials()
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is required")
	}

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

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		orch,
		func(userID, sessionID string) { orch.CreateSession(userID, sessionID) },
		rec,
		cfg.AllowedUsers,
		cfg.AdminUserID,
		cfg.MessageParseMode,
	)
	if err != nil {
		log.Fatalf("failed to create telegram bot: %v", err)
	}

	sched := scheduler.New(cfg.ReportCronSpec)
	sched.SetReportFunction(bot.SendDailyReport)
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Printf("🚀 Travel assistant bot started (provider=%s, model=%s)", cfg.LLMProvider, cfg.OpenAIModel)
	bot.Start(context.Background())
}

func readSystemPrompt(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read system prompt from %s: %v", path, err)
		return ""
	}
	return string(data)
}

package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// Telegram host (cmd/bot only)
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Assistant identity
	AppName          string `env:"APP_NAME" envDefault:"travel_assistant_app"`
	DefaultUserID    string `env:"DEFAULT_USER_ID" envDefault:"Chris"`
	DefaultSessionID string `env:"DEFAULT_SESSION_ID" envDefault:"session_001"`

	// Storage
	MemoryFilePath string `env:"MEMORY_FILE_PATH" envDefault:"data/travel_agent_memory.json"`
	LogFilePath    string `env:"LOG_FILE_PATH" envDefault:"logs/log.jsonl"`

	// Daily report
	ReportCronSpec string `env:"REPORT_CRON_SPEC"`

	// Formatting
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// RequireLLMCredentials завершает процесс, если для выбранного провайдера
// не задан ключ. Проверяется на старте, до обработки сообщений.
func (c *Config) RequireLLMCredentials() {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			log.Fatalf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			log.Fatalf("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for the yandex provider")
		}
	default:
		log.Fatalf("unknown LLM provider: %s", c.LLMProvider)
	}
}

package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"travel-assistant/internal/analytics"
	"travel-assistant/internal/storage"
)

const resetCmd = "reset_ctx"

// assistant — то, что бот ждет от оркестратора.
type assistant interface {
	HandleTurn(ctx context.Context, utterance, userID, sessionID string) (string, error)
	ResetSession(userID, sessionID string)
}

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	assistant   assistant
	recorder    storage.Recorder
	allowed     map[int64]bool
	adminUserID int64
	parseMode   string

	// chats with a created orchestrator session
	sessions map[int64]bool
	create   func(userID, sessionID string)
}

func New(botToken string, asst assistant, create func(userID, sessionID string), rec storage.Recorder, allowedUsers []int64, adminUserID int64, parseMode string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	allowed := make(map[int64]bool, len(allowedUsers))
	for _, id := range allowedUsers {
		allowed[id] = true
	}
	return &Bot{
		api:         api,
		s:           botAPISender{api: api},
		assistant:   asst,
		recorder:    rec,
		allowed:     allowed,
		adminUserID: adminUserID,
		parseMode:   parseMode,
		sessions:    make(map[int64]bool),
		create:      create,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if len(b.allowed) > 0 && !b.allowed[msg.From.ID] {
		log.Printf("Unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		b.sendMessage(msg.Chat.ID, "You are not on the allowlist for this bot.")
		return
	}

	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	userID, sessionID := b.identify(msg)
	if !b.sessions[msg.Chat.ID] {
		if b.create != nil {
			b.create(userID, sessionID)
		}
		b.sessions[msg.Chat.ID] = true
	}

	reply, err := b.assistant.HandleTurn(ctx, msg.Text, userID, sessionID)
	if err != nil {
		log.Printf("failed to handle turn: %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	// Reply with inline button to reset context
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset context", resetCmd),
		),
	)

	msgOut := tgbotapi.NewMessage(msg.Chat.ID, reply)
	msgOut.ParseMode = b.parseModeValue()
	msgOut.ReplyMarkup = kb
	if _, err := b.s.Send(msgOut); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Data == resetCmd {
		userID := strconv.FormatInt(cb.From.ID, 10)
		sessionID := chatSessionID(cb.Message.Chat.ID)
		b.assistant.ResetSession(userID, sessionID)
		confirm := tgbotapi.NewMessage(cb.Message.Chat.ID, "Context cleared. Your saved travel preferences are kept.")
		if _, err := b.s.Send(confirm); err != nil {
			log.Printf("failed to send reset confirmation: %v", err)
		}
		return
	}
}

// SendDailyReport aggregates yesterday-to-now usage and sends it to the admin
// chat. Wired to the cron scheduler from cmd/bot.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.adminUserID == 0 {
		return nil
	}
	if b.recorder == nil {
		return fmt.Errorf("no recorder configured")
	}
	events, err := b.recorder.LoadInteractions()
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}
	stats := analytics.AnalyzeDailyLogs(events, time.Now().UTC())
	b.sendMessage(b.adminUserID, stats.GenerateReportSummary())
	return nil
}

func (b *Bot) identify(msg *tgbotapi.Message) (userID, sessionID string) {
	return strconv.FormatInt(msg.From.ID, 10), chatSessionID(msg.Chat.ID)
}

func chatSessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = b.parseModeValue()
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) parseModeValue() string {
	switch b.parseMode {
	case "HTML", "Markdown", "MarkdownV2":
		return b.parseMode
	}
	return ""
}

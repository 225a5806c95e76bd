package telegram

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sw := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sw.Text)
	return tgbotapi.Message{}, nil
}

type fakeAssistant struct {
	reply   string
	turns   []string
	users   []string
	resets  []string
	created []string
}

func (f *fakeAssistant) HandleTurn(_ context.Context, utterance, userID, sessionID string) (string, error) {
	f.turns = append(f.turns, utterance)
	f.users = append(f.users, userID+"/"+sessionID)
	return f.reply, nil
}

func (f *fakeAssistant) ResetSession(userID, sessionID string) {
	f.resets = append(f.resets, userID+"/"+sessionID)
}

func newTestBot(fa *fakeAssistant, allowed []int64) (*Bot, *fakeSender) {
	fs := &fakeSender{}
	allow := make(map[int64]bool, len(allowed))
	for _, id := range allowed {
		allow[id] = true
	}
	b := &Bot{
		s:         fs,
		assistant: fa,
		allowed:   allow,
		parseMode: "HTML",
		sessions:  make(map[int64]bool),
	}
	b.create = func(userID, sessionID string) {
		fa.created = append(fa.created, userID+"/"+sessionID)
	}
	return b, fs
}

func TestHandleIncomingMessage_RoutesToAssistant(t *testing.T) {
	fa := &fakeAssistant{reply: "Here are your flights"}
	b, fs := newTestBot(fa, []int64{42})

	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 42}, Chat: &tgbotapi.Chat{ID: 100}, Text: "flights to Paris"}
	b.handleIncomingMessage(context.Background(), msg)

	if len(fa.turns) != 1 || fa.turns[0] != "flights to Paris" {
		t.Fatalf("turns: %v", fa.turns)
	}
	if fa.users[0] != "42/tg-100" {
		t.Fatalf("identity: %v", fa.users)
	}
	if len(fa.created) != 1 || fa.created[0] != "42/tg-100" {
		t.Fatalf("session not created: %v", fa.created)
	}
	if len(fs.sent) != 1 || fs.sent[0] != "Here are your flights" {
		t.Fatalf("sent: %v", fs.sent)
	}

	// second message must not recreate the session
	b.handleIncomingMessage(context.Background(), msg)
	if len(fa.created) != 1 {
		t.Fatalf("session recreated: %v", fa.created)
	}
}

func TestHandleIncomingMessage_Unauthorized(t *testing.T) {
	fa := &fakeAssistant{reply: "should not happen"}
	b, fs := newTestBot(fa, []int64{42})

	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 13}, Chat: &tgbotapi.Chat{ID: 100}, Text: "hi"}
	b.handleIncomingMessage(context.Background(), msg)

	if len(fa.turns) != 0 {
		t.Fatalf("unauthorized user reached assistant")
	}
	if len(fs.sent) != 1 || !strings.Contains(fs.sent[0], "allowlist") {
		t.Fatalf("sent: %v", fs.sent)
	}
}

func TestHandleCallback_ResetsSession(t *testing.T) {
	fa := &fakeAssistant{}
	b, fs := newTestBot(fa, nil)

	cb := &tgbotapi.CallbackQuery{
		From:    &tgbotapi.User{ID: 42},
		Data:    resetCmd,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
	}
	b.handleCallback(cb)

	if len(fa.resets) != 1 || fa.resets[0] != "42/tg-100" {
		t.Fatalf("resets: %v", fa.resets)
	}
	if len(fs.sent) != 1 || !strings.Contains(fs.sent[0], "Context cleared") {
		t.Fatalf("sent: %v", fs.sent)
	}
}

package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"travel-assistant/internal/history"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/storage"
	"travel-assistant/internal/tools"
)

// NoResponseMessage is returned when the controller finishes a turn without
// any final text.
const NoResponseMessage = "No response received."

// maxToolRounds ограничивает количество циклов tool call -> ответ модели
// в рамках одного хода, чтобы не зависнуть на зацикленной модели.
const maxToolRounds = 8

// Session — идентификатор диалога: приложение, пользователь, сессия.
type Session struct {
	AppName   string
	UserID    string
	SessionID string
}

// Orchestrator прогоняет один ход пользователя через модель, исполняя
// все запрошенные ею tool calls, и возвращает финальный текст.
type Orchestrator struct {
	client       llm.Client
	gateway      *tools.Gateway
	history      *history.Manager
	recorder     storage.Recorder
	systemPrompt string
	appName      string

	mu       sync.Mutex
	sessions map[string]Session
}

func New(client llm.Client, gateway *tools.Gateway, recorder storage.Recorder, systemPrompt, appName string) *Orchestrator {
	return &Orchestrator{
		client:       client,
		gateway:      gateway,
		history:      history.NewManager(),
		recorder:     recorder,
		systemPrompt: systemPrompt,
		appName:      appName,
		sessions:     make(map[string]Session),
	}
}

// CreateSession registers a (user, session) pair. Turns for unknown
// sessions are rejected. Creating the same session twice is a no-op.
func (o *Orchestrator) CreateSession(userID, sessionID string) Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	key := sessionKey(userID, sessionID)
	if s, ok := o.sessions[key]; ok {
		return s
	}
	s := Session{AppName: o.appName, UserID: userID, SessionID: sessionID}
	o.sessions[key] = s
	log.Printf("🆕 Session created: app=%s user=%s session=%s", o.appName, userID, sessionID)
	return s
}

// ResetSession drops the in-memory transcript. Stored preferences survive.
func (o *Orchestrator) ResetSession(userID, sessionID string) {
	o.history.Reset(sessionKey(userID, sessionID))
}

// HandleTurn submits an utterance and drives the tool loop until the model
// produces final text. The user identity is bound per call, not globally.
func (o *Orchestrator) HandleTurn(ctx context.Context, utterance, userID, sessionID string) (string, error) {
	key := sessionKey(userID, sessionID)
	o.mu.Lock()
	_, ok := o.sessions[key]
	o.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown session %q for user %q: call CreateSession first", sessionID, userID)
	}

	o.history.AppendUser(key, utterance)

	var toolCallNames []string
	var lastResp llm.Response
	for round := 0; round < maxToolRounds; round++ {
		msgs := o.buildContext(key)
		resp, err := o.client.GenerateWithTools(ctx, msgs, llm.GetTravelTools())
		if err != nil {
			return "", fmt.Errorf("controller call failed: %w", err)
		}
		lastResp = resp

		if len(resp.ToolCalls) > 0 {
			o.history.Append(key, llm.Message{
				Role:      "assistant",
				Content:   resp.Content,
				ToolCalls: resp.ToolCalls,
			})
			for _, tc := range resp.ToolCalls {
				toolCallNames = append(toolCallNames, tc.Function.Name)
				res := o.gateway.Execute(ctx, userID, tc)
				o.history.Append(key, llm.Message{
					Role:       "tool",
					ToolCallID: tc.ID,
					Content:    res.Content,
				})
			}
			continue
		}

		if resp.Content != "" {
			o.history.AppendAssistant(key, resp.Content)
			o.record(utterance, resp.Content, userID, sessionID, toolCallNames, resp)
			return resp.Content, nil
		}
		break
	}

	log.Printf("⚠️ Turn for user %s ended without final text (%d tool calls)", userID, len(toolCallNames))
	o.record(utterance, NoResponseMessage, userID, sessionID, toolCallNames, lastResp)
	return NoResponseMessage, nil
}

func (o *Orchestrator) buildContext(key string) []llm.Message {
	var msgs []llm.Message
	if o.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: "system", Content: o.systemPrompt})
	}
	return append(msgs, o.history.Get(key)...)
}

func (o *Orchestrator) record(userMsg, reply, userID, sessionID string, toolCalls []string, resp llm.Response) {
	if o.recorder == nil {
		return
	}
	err := o.recorder.AppendInteraction(storage.Event{
		Timestamp:         time.Now().UTC(),
		AppName:           o.appName,
		UserID:            userID,
		SessionID:         sessionID,
		UserMessage:       userMsg,
		AssistantResponse: reply,
		ToolCalls:         toolCalls,
		Model:             resp.Model,
		TotalTokens:       resp.TotalTokens,
	})
	if err != nil {
		log.Printf("failed to record interaction: %v", err)
	}
}

func sessionKey(userID, sessionID string) string {
	return userID + "/" + sessionID
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"travel-assistant/internal/flights"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/memory"
)

// Gateway исполняет tool calls модели поверх хранилища предпочтений и
// генератора перелётов. Пользователь передаётся явно в каждый вызов,
// никакого глобального состояния.
type Gateway struct {
	store   *memory.FileStore
	flights *flights.Generator
}

func NewGateway(store *memory.FileStore, gen *flights.Generator) *Gateway {
	return &Gateway{store: store, flights: gen}
}

// Result is what goes back to the model as the tool message content.
type Result struct {
	Name    string
	Content string
}

// Execute dispatches a single tool call for userID. Tool-level failures
// (bad arguments, failed flush) come back as status:"error" payloads so the
// model can react; Execute itself only errors on marshalling.
func (g *Gateway) Execute(ctx context.Context, userID string, tc llm.ToolCall) Result {
	switch tc.Function.Name {
	case "save_preference":
		category, ok := stringArg(tc.Function.Arguments, "category")
		if !ok {
			return errorResult(tc, "missing 'category' argument")
		}
		preference, ok := stringArg(tc.Function.Arguments, "preference")
		if !ok {
			return errorResult(tc, "missing 'preference' argument")
		}
		if err := g.store.Add(userID, category, preference); err != nil {
			log.Printf("❌ save_preference failed for %s: %v", userID, err)
			return errorResult(tc, fmt.Sprintf("failed to save preference: %v", err))
		}
		log.Printf("💾 Saved preference for %s in '%s': %q", userID, category, preference)
		return jsonResult(tc, map[string]interface{}{
			"status":  "success",
			"message": fmt.Sprintf("Preference saved in category '%s'.", category),
		})

	case "retrieve_preferences":
		category, ok := stringArg(tc.Function.Arguments, "category")
		if !ok {
			return errorResult(tc, "missing 'category' argument")
		}
		prefs := g.store.Search(userID, category)
		log.Printf("🧠 Retrieved %d preferences for %s from '%s'", len(prefs), userID, category)
		return jsonResult(tc, map[string]interface{}{
			"status":      "success",
			"preferences": prefs,
			"count":       len(prefs),
		})

	case "find_flights":
		destination, ok := stringArg(tc.Function.Arguments, "destination")
		if !ok {
			return errorResult(tc, "missing 'destination' argument")
		}
		departureDate, ok := stringArg(tc.Function.Arguments, "departure_date")
		if !ok {
			return errorResult(tc, "missing 'departure_date' argument")
		}
		prefs := stringSliceArg(tc.Function.Arguments, "preferences")
		offers := g.flights.Find(destination, departureDate, prefs)
		log.Printf("✈️ find_flights: %s on %s, %d offers (prefs: %d)", destination, departureDate, len(offers), len(prefs))
		return jsonResult(tc, map[string]interface{}{
			"status":  "success",
			"flights": offers,
		})
	}

	return errorResult(tc, fmt.Sprintf("unknown tool: %s", tc.Function.Name))
}

func stringArg(args map[string]interface{}, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func jsonResult(tc llm.ToolCall, payload map[string]interface{}) Result {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorResult(tc, fmt.Sprintf("failed to encode result: %v", err))
	}
	return Result{Name: tc.Function.Name, Content: string(data)}
}

func errorResult(tc llm.ToolCall, msg string) Result {
	data, _ := json.Marshal(map[string]string{"status": "error", "message": msg})
	return Result{Name: tc.Function.Name, Content: string(data)}
}

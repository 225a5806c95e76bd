package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"travel-assistant/internal/flights"
	"travel-assistant/internal/memory"
)

// SavePreferenceParams параметры для сохранения предпочтения
type SavePreferenceParams struct {
	Category   string `json:"category" mcp:"preference namespace, e.g. 'travel_preferences'"`
	Preference string `json:"preference" mcp:"the preference exactly as the user stated it"`
}

// RetrievePreferencesParams параметры для чтения предпочтений
type RetrievePreferencesParams struct {
	Category string `json:"category" mcp:"preference namespace, e.g. 'travel_preferences'"`
}

// FindFlightsParams параметры поиска перелётов
type FindFlightsParams struct {
	Destination   string   `json:"destination" mcp:"destination city or airport"`
	DepartureDate string   `json:"departure_date" mcp:"departure date, YYYY-MM-DD"`
	Preferences   []string `json:"preferences,omitempty" mcp:"stored preference strings to bias the search"`
}

// TravelMCPServer отдаёт travel-инструменты любому MCP клиенту.
// Пользователь фиксируется переменной окружения на весь процесс.
type TravelMCPServer struct {
	store   *memory.FileStore
	flights *flights.Generator
	userID  string
}

func (s *TravelMCPServer) SavePreference(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SavePreferenceParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if args.Category == "" || args.Preference == "" {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "❌ category and preference are required"},
			},
		}, nil
	}

	if err := s.store.Add(s.userID, args.Category, args.Preference); err != nil {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("❌ Failed to save preference: %v", err)},
			},
		}, nil
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("✅ Preference saved in category '%s'.", args.Category)},
		},
		Meta: map[string]interface{}{
			"category": args.Category,
			"success":  true,
		},
	}, nil
}

func (s *TravelMCPServer) RetrievePreferences(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[RetrievePreferencesParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	prefs := s.store.Search(s.userID, args.Category)

	data, err := json.Marshal(map[string]interface{}{
		"status":      "success",
		"preferences": prefs,
		"count":       len(prefs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func (s *TravelMCPServer) FindFlights(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[FindFlightsParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if args.Destination == "" || args.DepartureDate == "" {
		return &mcp.CallToolResultFor[any]{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: "❌ destination and departure_date are required"},
			},
		}, nil
	}

	offers := s.flights.Find(args.Destination, args.DepartureDate, args.Preferences)
	data, err := json.Marshal(map[string]interface{}{
		"status":  "success",
		"flights": offers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode flights: %w", err)
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	memoryPath := os.Getenv("MEMORY_FILE_PATH")
	if memoryPath == "" {
		memoryPath = "data/travel_agent_memory.json"
	}
	userID := os.Getenv("MEMORY_USER_ID")
	if userID == "" {
		userID = "Chris"
	}

	store, err := memory.NewFileStore(memoryPath)
	if err != nil {
		log.Fatalf("❌ Failed to init preference store: %v", err)
	}

	log.Printf("🚀 Starting Travel MCP Server (user=%s, memory=%s)", userID, memoryPath)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "travel-assistant-mcp",
		Version: "1.0.0",
	}, nil)

	travelServer := &TravelMCPServer{
		store:   store,
		flights: flights.New(),
		userID:  userID,
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_preference",
		Description: "Saves a travel preference for the current user",
	}, travelServer.SavePreference)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "retrieve_preferences",
		Description: "Retrieves saved travel preferences for the current user in a category",
	}, travelServer.RetrievePreferences)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_flights",
		Description: "Searches flights to a destination, ranking preferred airlines first",
	}, travelServer.FindFlights)

	log.Printf("📋 Registered %d tools: save_preference, retrieve_preferences, find_flights", 3)
	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

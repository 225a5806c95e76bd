package llm

// GetTravelTools возвращает список инструментов тревел-ассистента для LLM.
func GetTravelTools() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: Function{
				Name:        "save_preference",
				Description: "Saves a travel preference the user stated so it can be reused in future sessions. Use whenever the user shares a new preference (airline, seat, budget, etc.).",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"category": map[string]interface{}{
							"type":        "string",
							"description": "Preference namespace, e.g. 'travel_preferences'",
						},
						"preference": map[string]interface{}{
							"type":        "string",
							"description": "The preference exactly as the user stated it",
						},
					},
					"required": []string{"category", "preference"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "retrieve_preferences",
				Description: "Retrieves previously saved preferences for the current user in a category. Call this before searching for flights.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"category": map[string]interface{}{
							"type":        "string",
							"description": "Preference namespace, e.g. 'travel_preferences'",
						},
					},
					"required": []string{"category"},
				},
			},
		},
		{
			Type: "function",
			Function: Function{
				Name:        "find_flights",
				Description: "Searches flights to a destination on a date. Pass the user's stored preferences so matching airlines are ranked first.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"destination": map[string]interface{}{
							"type":        "string",
							"description": "Destination city or airport",
						},
						"departure_date": map[string]interface{}{
							"type":        "string",
							"description": "Departure date, YYYY-MM-DD",
						},
						"preferences": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Stored preference strings to bias the search (optional)",
						},
					},
					"required": []string{"destination", "departure_date"},
				},
			},
		},
	}
}

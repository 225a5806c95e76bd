package analytics

import (
	"encoding/json"
	"fmt"
	"time"

	"travel-assistant/internal/storage"
)

// DailyStats содержит статистику использования ассистента за день.
type DailyStats struct {
	Date            string               `json:"date"`
	TotalTurns      int                  `json:"total_turns"`
	UniqueUsers     int                  `json:"unique_users"`
	ToolCallsTotal  int                  `json:"tool_calls_total"`
	ToolCallsByName map[string]int       `json:"tool_calls_by_name"`
	UserStats       map[string]UserStats `json:"user_stats"`
}

// UserStats содержит статистику по одному пользователю.
type UserStats struct {
	UserID          string         `json:"user_id"`
	Turns           int            `json:"turns"`
	ToolCalls       int            `json:"tool_calls"`
	ToolCallsByName map[string]int `json:"tool_calls_by_name"`
}

// AnalyzeDailyLogs аггрегирует записанные ходы за указанную дату.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:            startOfDay.Format("2006-01-02"),
		ToolCallsByName: make(map[string]int),
		UserStats:       make(map[string]UserStats),
	}

	uniqueUsers := make(map[string]bool)

	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}

		stats.TotalTurns++
		uniqueUsers[event.UserID] = true

		userStat, exists := stats.UserStats[event.UserID]
		if !exists {
			userStat = UserStats{
				UserID:          event.UserID,
				ToolCallsByName: make(map[string]int),
			}
		}
		userStat.Turns++

		for _, name := range event.ToolCalls {
			stats.ToolCallsTotal++
			stats.ToolCallsByName[name]++
			userStat.ToolCalls++
			userStat.ToolCallsByName[name]++
		}

		stats.UserStats[event.UserID] = userStat
	}

	stats.UniqueUsers = len(uniqueUsers)
	return stats
}

// GenerateReportSummary создает текстовое резюме для отправки администратору.
func (ds *DailyStats) GenerateReportSummary() string {
	summary := fmt.Sprintf(`Travel assistant usage for %s:

Overall:
- Turns: %d
- Unique users: %d
- Tool calls: %d

`, ds.Date, ds.TotalTurns, ds.UniqueUsers, ds.ToolCallsTotal)

	if len(ds.ToolCallsByName) > 0 {
		summary += "Tool usage:\n"
		for name, count := range ds.ToolCallsByName {
			summary += fmt.Sprintf("- %s: %d\n", name, count)
		}
		summary += "\n"
	}

	summary += fmt.Sprintf("User activity (%d users):\n", len(ds.UserStats))
	for userID, userStat := range ds.UserStats {
		summary += fmt.Sprintf("- %s: %d turns", userID, userStat.Turns)
		if userStat.ToolCalls > 0 {
			summary += fmt.Sprintf(", %d tool calls", userStat.ToolCalls)
		}
		summary += "\n"
	}

	return summary
}

// ToJSON сериализует статистику в JSON для детального анализа.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

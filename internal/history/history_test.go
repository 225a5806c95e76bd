package history

import (
	"testing"

	"travel-assistant/internal/llm"
)

func TestManager_AppendGetReset(t *testing.T) {
	m := NewManager()
	m.AppendUser("s1", "hi")
	m.AppendAssistant("s1", "hello")
	m.Append("s1", llm.Message{Role: "tool", ToolCallID: "tc-1", Content: "{}"})

	got := m.Get("s1")
	if len(got) != 3 {
		t.Fatalf("want 3 messages, got %d", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" || got[2].ToolCallID != "tc-1" {
		t.Fatalf("unexpected transcript: %+v", got)
	}

	if len(m.Get("s2")) != 0 {
		t.Fatalf("sessions not isolated")
	}

	m.Reset("s1")
	if len(m.Get("s1")) != 0 {
		t.Fatalf("reset did not clear session")
	}
}
